package window

// WindowBuilderOption is a functional option for configuring an sdfWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *sdfWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *sdfWindow) {
		w.title = title
	}
}

// WithSize sets the initial window size. The framebuffer size reported by Viewport may differ on high-DPI displays.
//
// Parameters:
//   - width: initial width in screen coordinates
//   - height: initial height in screen coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *sdfWindow) {
		w.width = width
		w.height = height
	}
}

// WithMinSize limits how small the window can be resized.
//
// Parameters:
//   - width: minimum width, 0 for no limit
//   - height: minimum height, 0 for no limit
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *sdfWindow) {
		w.minWidth = width
		w.minHeight = height
	}
}

// WithMaxSize limits how large the window can be resized.
//
// Parameters:
//   - width: maximum width, 0 for no limit
//   - height: maximum height, 0 for no limit
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxSize(width, height int) WindowBuilderOption {
	return func(w *sdfWindow) {
		w.maxWidth = width
		w.maxHeight = height
	}
}
