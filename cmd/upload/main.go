package main

import (
	"os"

	"github.com/mediastack/upload-service/internal/app"
)

func main() {
	os.Exit(app.Run("upload", run))
}
