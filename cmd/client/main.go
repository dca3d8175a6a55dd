package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dkarasev/zkid/internal/client/cli"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "server base URL")
	cmd := flag.String("cmd", "login", "register | login")
	flag.Parse()

	app := cli.New(*addr)
	ctx := context.Background()

	var err error
	switch *cmd {
	case "register":
		err = app.Register(ctx)
	case "login":
		err = app.Login(ctx)
	default:
		fmt.Fprintf(os.Stderr, "unknown -cmd %q\n", *cmd)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
