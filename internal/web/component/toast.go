package component

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// ToastKind selects the toast color.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
)

// Toast renders a notification appended out-of-band to the toast stack.
// The stack exists on every page, so any fragment response can carry one.
func Toast(kind ToastKind, text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div id="toasts" hx-swap-oob="beforeend"><div class="toast toast-%s" role="status">%s</div></div>`,
			esc(string(kind)), esc(text))
		return err
	})
}
