// Package ornament places the sparse decorations that ride on the tree
// silhouette: tagged bauble anchors, photo-frame anchors and the star, plus
// the eased visibility scale that hides them while the cloud is dispersed.
package ornament
