package main

import (
	"embed"

	"quickwinstall/internal/application"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	// Create an instance of the app structure
	app := application.NewApp()

	// Create application with options
	err := wails.Run(&options.App{
		Title:     application.AppTitle,
		Width:     application.WindowWidth,
		Height:    application.WindowHeight,
		MinWidth:  application.MinimumWidth,
		MinHeight: application.MinimumHeight,

		AssetServer: &assetserver.Options{
			Assets: assets,
		},

		OnStartup:  app.OnStartup,
		OnShutdown: app.OnShutdown,
		Bind: []interface{}{
			app.Bridge(),
		},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}
