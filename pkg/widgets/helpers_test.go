package widgets_test

import (
	"errors"

	"github.com/goliatone/go-liveform/pkg/apierror"
	"github.com/goliatone/go-liveform/pkg/element"
	"github.com/goliatone/go-liveform/pkg/widgetid"
)

func asAPIError(err error, target **apierror.Error) bool {
	return errors.As(err, target)
}

func widgetIDOf(bg element.ButtonGroup) widgetid.ID {
	return widgetid.ID(bg.ID)
}
