// Command hashpw prints a bcrypt hash for an admin password, read from the first
// argument or from stdin.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/wb-go/wbf/zlog"

	"regdesk/internal/auth"
)

func main() {
	zlog.Init()
	log := zlog.Logger

	var password string
	if len(os.Args) > 1 {
		password = os.Args[1]
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatal().Err(err).Msg("failed to read password from stdin")
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		log.Fatal().Msg("usage: hashpw <password>")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}
	fmt.Println(hash)
}
