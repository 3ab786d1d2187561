package cmd

import "github.com/ardnew/ajscript/pkg"

var (
	ErrScriptNotFound = pkg.NewError("script not found")
	ErrOpenSource     = pkg.NewError("open source")
	ErrPreload        = pkg.NewError("preload script")
	ErrWriteConfig    = pkg.NewError("write configuration file")
	ErrFileExists     = pkg.NewError("file exists (use --force to overwrite)")
	ErrEncodeConfig   = pkg.NewError("encode configuration")
	ErrFormat         = pkg.NewError("format script")
)
