package main

import (
	"fmt"
	"os"

	"github.com/cuongbtq/job-mailer/cmd/mailer-cli/commands"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
