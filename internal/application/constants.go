package application

const (
	// Window constants
	AppTitle      = "QuickWinstall"
	WindowWidth   = 1024
	WindowHeight  = 720
	MinimumWidth  = 800
	MinimumHeight = 600
)
