// Package lua runs keyboard responders written in Lua.
//
// Each script gets its own sandboxed gopher-lua state with only the base,
// table, string and math libraries. File loaders are removed and require
// only returns those built-in modules. Every execution runs under a
// deadline (DefaultExecutionTimeout).
//
// A script declares its shortcuts and handles the actions they name:
//
//	shortcuts = {
//	    {keys = "Cmd+j", action = "greet", title = "Say hello"},
//	}
//
//	function perform(action, input, mods)
//	    term.write("hello\r")
//	end
//
// The loaded Responder joins the dispatcher's responder chain like any
// other responder.
package lua
