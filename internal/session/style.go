package session

import "github.com/alfredjeanlab/linuxtrainer/internal/ui"

var (
	boldStyle    = ui.RenderBold
	successStyle = ui.RenderSuccess
	errorStyle   = ui.RenderError
	hintStyle    = ui.RenderHint
	infoStyle    = ui.RenderInfo
	mutedStyle   = ui.RenderMuted
)
