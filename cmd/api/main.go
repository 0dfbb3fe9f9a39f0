package main

import (
	"github.com/namnguyen191/Natours-API/config"
	"github.com/namnguyen191/Natours-API/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
