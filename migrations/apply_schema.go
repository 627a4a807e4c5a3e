package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Planta-api/pkg/config"
)

// Aplica el esquema base. Ejecutar desde la raíz del repo:
//
//	go run ./migrations
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("error cargando configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DB.ConnectionString())
	if err != nil {
		fmt.Printf("error conectando a la base de datos: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	sqlFile, err := os.ReadFile("migrations/001_schema.sql")
	if err != nil {
		fmt.Printf("error leyendo el archivo sql: %v\n", err)
		os.Exit(1)
	}

	if _, err := pool.Exec(ctx, string(sqlFile)); err != nil {
		fmt.Printf("migración fallida: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("migración aplicada.")
}
