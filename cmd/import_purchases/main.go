// import_purchases registra una entrega de proveedor leída desde un CSV como un único lote
// atómico: se guardan todas las líneas o ninguna.
//
// Uso: go run ./cmd/import_purchases -vendor <uuid> [-encoding windows-1252] [-sep ';'] [-date 2026-01-31] entrega.csv
// El CSV debe tener encabezado con product_id, volume_liter y price_per_liter.
// Usa la misma configuración que la API (DB_DRIVER, DATABASE_URL, SQLITE_PATH, ...).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/purchasing"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/storage"
	"github.com/jhoicas/pos-inventario/pkg/config"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

func main() {
	vendorID := flag.String("vendor", "", "UUID del proveedor")
	encoding := flag.String("encoding", "utf-8", "codificación del archivo: utf-8, windows-1252, latin1")
	sep := flag.String("sep", ",", "separador de columnas (',' o ';')")
	date := flag.String("date", "", "fecha de la entrega YYYY-MM-DD (por defecto ahora)")
	flag.Parse()

	if flag.NArg() != 1 || *vendorID == "" {
		fmt.Fprintln(os.Stderr, "uso: import_purchases -vendor <uuid> [opciones] archivo.csv")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if len(*sep) != 1 {
		fmt.Fprintln(os.Stderr, "-sep debe ser un solo carácter")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	r, err := decodeReader(f, *encoding)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	lines, err := parseLines(r, rune((*sep)[0]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	req := dto.RecordDeliveryRequest{VendorID: *vendorID, Lines: lines}
	if *date != "" {
		at, err := time.Parse(time.DateOnly, *date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fecha inválida: %v\n", err)
			os.Exit(2)
		}
		req.PurchasedAt = &at
	}

	ctx := context.Background()
	st, err := storage.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacén")
	}
	defer st.Close()

	uc := purchasing.NewPurchaseUseCase(st.Tx, st.Purchases, st.Products, st.Vendors, cfg.Inventory.PageSize, nil, log)
	out, err := uc.RecordDelivery(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("file", flag.Arg(0)).Msg("entrega rechazada; no se guardó ninguna línea")
		st.Close()
		os.Exit(1)
	}
	fmt.Printf("Lote %s: %d líneas, %s L, total %s\n",
		out.BatchID, len(out.Lines), out.TotalVolumeLiter.String(), out.TotalCost.StringFixed(2))
}
