//go:build js && wasm

package dom

import (
	"context"
	"syscall/js"
)

// Actions are the controller operations triggered from the page.
type Actions interface {
	Submit(ctx context.Context) error
	Delete(ctx context.Context, id string) error
}

// Bind wires the add button and the delegated delete handler on the list.
// Handlers run the actions on their own goroutine since a js.Func callback
// must not block. The returned func removes the listeners.
func (p *Page) Bind(ctx context.Context, a Actions) (unbind func()) {
	onAdd := js.FuncOf(func(this js.Value, args []js.Value) any {
		go func() { _ = a.Submit(ctx) }()
		return nil
	})

	onListClick := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		target := args[0].Get("target")
		if !target.Get("classList").Call("contains", ClassDeleteButton).Bool() {
			return nil
		}
		id := target.Get("dataset").Get("id").String()
		go func() { _ = a.Delete(ctx, id) }()
		return nil
	})

	p.addBtn.Call("addEventListener", "click", onAdd)
	p.list.Call("addEventListener", "click", onListClick)

	return func() {
		p.addBtn.Call("removeEventListener", "click", onAdd)
		p.list.Call("removeEventListener", "click", onListClick)
		onAdd.Release()
		onListClick.Release()
	}
}
