package main

import (
	"github.com/bornholm/pdfsplit/internal/command"
	"github.com/bornholm/pdfsplit/internal/command/handoff"
	"github.com/bornholm/pdfsplit/internal/command/info"
	"github.com/bornholm/pdfsplit/internal/command/split"
	"github.com/bornholm/pdfsplit/internal/command/thumbnails"
	"github.com/bornholm/pdfsplit/internal/command/watch"

	// Adapters
	_ "github.com/bornholm/pdfsplit/internal/adapter/filesystem"
	_ "github.com/bornholm/pdfsplit/internal/adapter/memory"
	_ "github.com/bornholm/pdfsplit/internal/adapter/minio"
	_ "github.com/bornholm/pdfsplit/internal/adapter/pdfcpu"
	_ "github.com/bornholm/pdfsplit/internal/adapter/poppler"
	_ "github.com/bornholm/pdfsplit/internal/adapter/zip"
)

func main() {
	command.Main(
		"pdfsplit", "Select pages of a PDF document and split them into new documents",
		split.Command(),
		info.Command(),
		thumbnails.Command(),
		handoff.Command(),
		watch.Command(),
	)
}
