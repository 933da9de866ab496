package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/manisai28/vseo/internal/models"
)

var (
	_ list.Item = videoItem{}
)

// videoItem wraps [models.VideoRecord] to implement [list.Item].
type videoItem struct {
	video models.VideoRecord
}

func (i videoItem) FilterValue() string { return i.video.Title }
func (i videoItem) Title() string       { return i.video.Title }
func (i videoItem) Description() string {
	desc := "not processed"
	if i.video.Processed {
		desc = fmt.Sprintf("%d keywords", len(i.video.Keywords))
	}
	if i.video.YoutubeUploaded {
		desc = fmt.Sprintf("%s • published", desc)
	}
	return desc
}
