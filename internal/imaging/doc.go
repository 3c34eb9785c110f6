// Package imaging holds the pixel buffer and every operation the letterform
// pipeline and the capture overlay need.
//
// A Buffer is either Gray (*image.Gray) or Color (*image.NRGBA). Operations are
// methods that replace the held image in place and fail with an
// InvalidArgument error from internal/errors when given bad geometry, bad
// parameters or the wrong colorspace. Decoding and encoding failures are
// IOFailure errors.
//
// # Operations
//
// Colorspace:
//   - Grayscale, ToColor: lossless no-ops when already in the target mode
//
// Geometry:
//   - PerspectiveTransform: warp a Quad onto an upright rectangle
//   - CropBorder: trim a percentage from every side
//   - Scale, ScaleBounded: linear resize, optionally fitted to a bounding box
//
// Binarization (grayscale only):
//   - AdaptiveThreshold: Gaussian local mean minus a constant
//   - Threshold: fixed cutoff derived from a black percentage
//   - AreaThreshold: repaint black regions smaller than a minimum area
//
// Filtering:
//   - Blur: exact box mean with edge replication
//
// Overlays:
//   - DrawLine, DrawPoint, Watermark
//
// # Coordinates
//
// Buffers always start at the origin. Point and Quad use pixel coordinates
// with X to the right and Y down; a Quad lists its corners as top-left,
// top-right, bottom-right, bottom-left.
package imaging
