package main

import "github.com/billpap123/artepovera-backend-sub000/internal/app"

func main() {
	app.Run()
}
