package main

import (
	"os"

	"github.com/roboco-io/hwpkit/internal/cli"
)

// 빌드 시 -ldflags "-X main.version=..." 로 설정
var version = "dev"

func main() {
	cli.SetVersion(version)
	os.Exit(cli.Execute())
}
