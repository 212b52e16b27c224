//go:build js && wasm

package main

import "syscall/js"

var (
	window   = js.Global()
	document = js.Global().Get("document")
)

// funcs keeps event callbacks alive for the lifetime of the page.
var funcs []js.Func

func on(target js.Value, event string, fn func(ev js.Value)) {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		ev := js.Undefined()
		if len(args) > 0 {
			ev = args[0]
		}
		fn(ev)
		return nil
	})
	funcs = append(funcs, f)
	target.Call("addEventListener", event, f)
}

func onReady(fn func()) {
	if document.Get("readyState").String() != "loading" {
		fn()
		return
	}
	on(document, "DOMContentLoaded", func(js.Value) { fn() })
}

func present(v js.Value) bool {
	return !v.IsNull() && !v.IsUndefined()
}

func byID(id string) js.Value {
	return document.Call("getElementById", id)
}

func query(root js.Value, sel string) js.Value {
	return root.Call("querySelector", sel)
}

func queryAll(root js.Value, sel string) []js.Value {
	list := root.Call("querySelectorAll", sel)
	out := make([]js.Value, list.Length())
	for i := range out {
		out[i] = list.Index(i)
	}
	return out
}

func toggleClass(el js.Value, name string, on bool) {
	if present(el) {
		el.Get("classList").Call("toggle", name, on)
	}
}

func setStyle(el js.Value, prop, value string) {
	if present(el) {
		el.Get("style").Set(prop, value)
	}
}

func attr(el js.Value, name string) string {
	v := el.Call("getAttribute", name)
	if !present(v) {
		return ""
	}
	return v.String()
}

// touchX is the horizontal position of the first touch point of ev.
func touchX(ev js.Value) float64 {
	touches := ev.Get("touches")
	if !present(touches) || touches.Length() == 0 {
		touches = ev.Get("changedTouches")
	}
	if !present(touches) || touches.Length() == 0 {
		return 0
	}
	return touches.Index(0).Get("clientX").Float()
}
