// Command tools seeds the user store. The relay itself never creates users;
// identities are provisioned out of band, this is the out-of-band.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"chat-relay/repositories"

	"github.com/dgraph-io/badger/v4"
)

func main() {
	path := flag.String("db", "", "badger database path")
	names := flag.String("users", "", "comma-separated user names to create")
	flag.Parse()

	if err := run(*path, *names); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(path, names string) error {
	if path == "" || names == "" {
		return fmt.Errorf("both -db and -users are required")
	}
	db, err := badger.Open(badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer db.Close()

	users, err := repositories.NewUserRepository(db)
	if err != nil {
		return err
	}
	defer users.Close()

	for _, name := range strings.Split(names, ",") {
		user, err := users.CreateUser(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		fmt.Printf("created user %d (%s)\n", user.ID, user.Name)
	}
	return nil
}
