package display

import (
	"context"
	"errors"

	"github.com/ashokshau/qrframe/internal/frame"
)

// Multi shows every frame on each of its displays. A failing display does
// not keep the others from showing the frame.
type Multi []frame.Display

// Show shows f on every display and joins their errors.
func (m Multi) Show(ctx context.Context, f frame.Frame) error {
	var errs []error
	for _, d := range m {
		if err := d.Show(ctx, f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
