package models

import (
	"log"

	"github.com/mmdatafocus/cashregister_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&LocalUser{},
		&CashRegisterSettings{},
		&CashSession{}, &CashMovement{}, &CashCount{},
		&OpenSessionEntry{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
