// Package config defines the settings of a slicing run.
//
// Values come from Default, then an optional slicecrop.yaml, then
// SLICECROP_* environment variables:
//
//	input_dir: Data_1
//	source_suffix: thresh.png
//	template_path: R.png
//	crop_dir: Slices
//	boundary_dir: Boundaries
//	match_threshold: 0.8
//	margin_width: 4
//	margin_height: 5
//	binary_threshold: 10
//	contour_color: "#00E9FF"
//	contour_thickness: 1
//	log_level: info
package config
