package repository

import "github.com/jhoicas/pos-inventario/pkg/pagination"

// PageQuery lectura acotada por clave compuesta (recorded_at DESC, id DESC).
// Todas las listas del almacén usan este mismo esquema.
type PageQuery = pagination.Query
