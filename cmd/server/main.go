package main

import (
	"github.com/institutsaintjean/evalhub/app"
)

func main() {
	app.New(nil).Run()
}
