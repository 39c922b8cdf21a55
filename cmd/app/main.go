package main

import (
	"github.com/kinokreker/core/internal/app"
	"github.com/kinokreker/core/internal/config"
)

func main() {
	app.Go(config.Load())
}
