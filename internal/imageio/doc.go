// Package imageio loads images into grayscale grids and writes grids back out.
//
// Supported input formats: PNG, JPEG, GIF (standard library) and BMP, TIFF,
// WebP (golang.org/x/image). Sources may be file paths or http(s) URLs.
//
// Grayscale conversion uses the luma weights 0.2989 R + 0.5870 G + 0.1140 B
// on 8-bit channel values, so grid values lie in [0, 255].
package imageio
