package main

import (
	"log"

	"github.com/eyepatch-3097/ds-chatbot/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
