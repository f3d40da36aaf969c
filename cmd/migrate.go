/*
Copyright 2025 Coinvault Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/coinvault/coinvault/config"
	"github.com/coinvault/coinvault/database"
)

// migrateCommands creates the schema and seeds the coin catalog.
func migrateCommands(_ *appInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "create coinvault schema and seed the coin catalog",
		Run: func(cmd *cobra.Command, args []string) {
			cnf, err := config.Fetch()
			if err != nil {
				log.Printf("Error fetching config: %v", err)
				return
			}

			// ConnectDB creates any missing tables on the way in.
			_, err = database.ConnectDB(cnf.DataSource.Dns)
			if err != nil {
				log.Printf("Error connecting to database: %v", err)
				return
			}

			ds, err := database.GetDBConnection(cnf)
			if err != nil {
				log.Printf("Error getting datasource: %v", err)
				return
			}

			seed, err := database.DefaultCoins()
			if err != nil {
				log.Printf("Error loading coin seed: %v", err)
				return
			}

			if err := ds.SeedCoins(context.Background(), seed); err != nil {
				log.Printf("Error seeding coins: %v", err)
				return
			}

			fmt.Printf("Schema ready, coin catalog seeded with %d coins\n", len(seed))
		},
	}

	return cmd
}
