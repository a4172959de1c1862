package gofetch

import "github.com/amr9/gofetch/internal/loader"

// WireRequest, TaskKind and BodySource are owned by internal/loader;
// gofetch re-exports them as the vocabulary its Modifier hook and
// task-kind selection operate on.
type (
	WireRequest = loader.WireRequest
	TaskKind    = loader.TaskKind
	BodySource  = loader.BodySource
)

const (
	TaskData         = loader.TaskData
	TaskUploadStream = loader.TaskUploadStream
	TaskDownload     = loader.TaskDownload
	TaskDownloadResume = loader.TaskDownloadResume
)
