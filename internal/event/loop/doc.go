// Package loop provides the single-goroutine run queue that owns all
// keystroke routing state.
//
// Any goroutine may Post work; Run executes posted functions one at a time,
// in order, on the calling goroutine. Keystrokes and asynchronous
// notifications such as input-language changes are posted to the same loop
// so they never interleave.
//
//	l := loop.New(loop.WithQueueSize(256))
//	go watchLanguage(func(lang string) {
//	    l.Post(func() { dispatcher.SetLanguage(lang) })
//	})
//	err := l.Run(ctx)
package loop
