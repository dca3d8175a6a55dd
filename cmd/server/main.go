package main

import (
	"context"
	"log"

	"github.com/dkarasev/zkid/internal/app"
	"github.com/dkarasev/zkid/internal/config"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	a.Run(ctx)
}
