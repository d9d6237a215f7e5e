package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/q"
	"github.com/mdouchement/medvault/internal/database"
	"github.com/mdouchement/medvault/internal/model"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
)

var filesPath string

func main() {
	c := &coral.Command{
		Use:   "rmuser DATABASE EMAIL",
		Short: "Remove a user, its sessions and its medical records from the database",
		Args:  coral.ExactArgs(2),
		RunE: func(_ *coral.Command, args []string) error {
			//
			//
			fmt.Println("Opening", args[0])
			db, err := storm.Open(args[0], database.StormCodec)
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			// Fetch user
			var user model.User
			err = db.One("Email", args[1], &user)
			if err != nil {
				if err == storm.ErrNotFound {
					fmt.Println("No account for this email")
					return nil
				}
				return errors.Wrap(err, "find user by mail")
			}

			fmt.Println("User found:", user.ID)

			// Deleting user's sessions
			err = db.Select(q.Eq("UserID", user.ID)).Delete(&model.Session{})
			if err != nil && err != storm.ErrNotFound {
				return errors.Wrap(err, "delete sessions")
			}
			fmt.Println("Sessions removed")

			// Deleting user's records
			err = db.Select(q.Eq("UserID", user.ID)).Delete(&model.Record{})
			if err != nil && err != storm.ErrNotFound {
				return errors.Wrap(err, "delete records")
			}
			fmt.Println("Records removed")

			if filesPath != "" {
				if err = os.RemoveAll(filepath.Join(filesPath, user.ID)); err != nil {
					return errors.Wrap(err, "delete files")
				}
				fmt.Println("Files removed")
			}

			// Delete user
			err = db.DeleteStruct(&user)
			if err != nil && err != storm.ErrNotFound {
				return errors.Wrap(err, "delete user")
			}
			fmt.Println("User removed")

			return nil
		},
	}
	c.Flags().StringVar(&filesPath, "files", "", "Directory where the attachments are stored")

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}
