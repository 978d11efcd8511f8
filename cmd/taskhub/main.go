package main

import (
	"context"
	"log"

	"github.com/dalemusser/waffle/app"
	"github.com/fcyap/IS212-G3T5-sub004/internal/app/bootstrap"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
