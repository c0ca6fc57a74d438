package keymap

// Action names handled by the terminal shell around the input layer.
const (
	ActionCopy       = "clipboard.copy"
	ActionPaste      = "clipboard.paste"
	ActionNewTab     = "tab.new"
	ActionCloseTab   = "tab.close"
	ActionNextTab    = "tab.next"
	ActionPrevTab    = "tab.prev"
	ActionZoomIn     = "view.zoomIn"
	ActionZoomOut    = "view.zoomOut"
	ActionZoomReset  = "view.zoomReset"
	ActionClear      = "view.clear"
	ActionShowHelp   = "view.help"
	ActionQuit       = "app.quit"
	ActionNewWindow  = "window.new"
	ActionSelectAll  = "edit.selectAll"
	ActionFindInView = "view.find"
)

// DefaultTerminalKeymap returns the default Command shortcuts.
func DefaultTerminalKeymap() *Keymap {
	return NewKeymap("default-terminal").WithSource("default").Add(
		// Clipboard
		MustShortcut("Cmd+c", ActionCopy).WithTitle("Copy").WithCategory("Clipboard"),
		MustShortcut("Cmd+v", ActionPaste).WithTitle("Paste").WithCategory("Clipboard"),
		MustShortcut("Cmd+a", ActionSelectAll).WithTitle("Select all").WithCategory("Clipboard"),

		// Tabs and windows
		MustShortcut("Cmd+t", ActionNewTab).WithTitle("New tab").WithCategory("Tabs"),
		MustShortcut("Cmd+w", ActionCloseTab).WithTitle("Close tab").WithCategory("Tabs"),
		MustShortcut("Cmd+Shift+]", ActionNextTab).WithTitle("Next tab").WithCategory("Tabs"),
		MustShortcut("Cmd+Shift+[", ActionPrevTab).WithTitle("Previous tab").WithCategory("Tabs"),
		MustShortcut("Cmd+Shift+n", ActionNewWindow).WithTitle("New window").WithCategory("Tabs"),

		// View
		MustShortcut("Cmd+=", ActionZoomIn).WithTitle("Zoom in").WithCategory("View"),
		MustShortcut("Cmd+-", ActionZoomOut).WithTitle("Zoom out").WithCategory("View"),
		MustShortcut("Cmd+0", ActionZoomReset).WithTitle("Reset zoom").WithCategory("View"),
		MustShortcut("Cmd+k", ActionClear).WithTitle("Clear screen").WithCategory("View"),
		MustShortcut("Cmd+f", ActionFindInView).WithTitle("Find").WithCategory("View"),
		MustShortcut("Cmd+/", ActionShowHelp).WithTitle("Show shortcuts").WithCategory("View"),

		// App
		MustShortcut("Cmd+q", ActionQuit).WithTitle("Quit").WithCategory("App"),
	)
}
