// cmd/seeduser creates or resets an Administrador account.
// Usage: go run ./cmd/seeduser -usuario admin -contrasenna secreto
// With -hash it only prints the bcrypt hash of -contrasenna.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"pactumsuite/internal/config"
	"pactumsuite/internal/infra"
	"pactumsuite/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	usuario := flag.String("usuario", "admin", "nombre de usuario")
	contrasenna := flag.String("contrasenna", "", "contrasenna (min 8 caracteres)")
	nombre := flag.String("nombre", "Administrador", "nombre completo")
	carnet := flag.String("carnet", "00000000000", "carnet de identidad (11 digitos)")
	soloHash := flag.Bool("hash", false, "solo imprime el hash bcrypt")
	flag.Parse()

	if len(*contrasenna) < 8 {
		log.Fatal().Msg("-contrasenna debe tener al menos 8 caracteres")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(*contrasenna), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}
	if *soloHash {
		fmt.Println(string(hash))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL, true, cfg.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	u := &model.Usuario{
		Nombre:          *nombre,
		NombreUsuario:   *usuario,
		CarnetIdentidad: *carnet,
		Cargo:           "Administrador",
		PasswordHash:    string(hash),
		Rol:             model.RolAdministrador,
		Activo:          true,
	}
	err = db.WithContext(context.Background()).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "nombre_usuario"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "nombre", "rol", "activo", "updated_at"}),
	}).Create(u).Error
	if err != nil {
		log.Fatal().Err(err).Msg("insert usuario")
	}
	log.Info().Str("usuario", *usuario).Msg("usuario administrador creado/actualizado")
}
