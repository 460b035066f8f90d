// Package wren scaffolds Shopware plugin code from embedded templates.
package wren

// Version is the current wren release.
const Version = "0.1.0"
