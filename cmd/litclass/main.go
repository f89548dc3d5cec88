// litclass is the command line client for the Ngữ văn 8 class server:
// students follow the lesson path, take quizzes and games; the teacher
// manages content, the roster and grading.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/litclass/litclass-lms/internal/config"
	"github.com/litclass/litclass-lms/internal/gateway"
	"github.com/litclass/litclass-lms/internal/lms"
	"github.com/litclass/litclass-lms/internal/session"
)

func main() {
	cfg := config.FromEnv()
	client := gateway.NewClient(cfg.GatewayURL, gateway.WithTimeout(cfg.RequestTimeout))
	svc := lms.NewService(client, session.NewStore(cfg.SessionFile))

	cli := &commandLine{svc: svc, in: os.Stdin, out: os.Stdout}
	if err := cli.run(os.Args); err != nil {
		if errors.Is(err, errHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
