// Command songdb builds the bundled karaoke songs database from the CSV song
// list and runs the app's lookup queries against a built file.
//
//	songdb build --source data/videoke_list.csv --dest app/src/main/assets/database/songs.db
//	songdb count
//	songdb search "bohemian"
//
// Running songdb with no command is the same as "songdb build".
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
