package pagination

import (
	"context"
	"fmt"
)

// DefaultPageSize tamaño de página cuando la configuración no define uno.
const DefaultPageSize = 12

// PageSizeConfig configura la normalización del tamaño de página.
type PageSizeConfig struct {
	Default int
	Max     int
}

// ClampPageSize aplica valor por defecto y máximo al tamaño de página.
func ClampPageSize(value int, cfg PageSizeConfig) int {
	pageSize := value
	if pageSize <= 0 {
		pageSize = cfg.Default
	}
	if cfg.Max > 0 && pageSize > cfg.Max {
		pageSize = cfg.Max
	}
	if pageSize <= 0 {
		pageSize = 1
	}
	return pageSize
}

// Query es la lectura acotada que el pager pide al almacén: filas estrictamente después de
// After (nil = desde el inicio), en orden (recorded_at DESC, id DESC), como máximo Limit.
type Query struct {
	After *Key
	Limit int
}

// Page es una página de resultados. NextCursor vacío indica fin de la colección.
type Page[T any] struct {
	Items      []T
	NextCursor string
}

// FetchFunc lee una página del almacén subyacente.
type FetchFunc[T any] func(ctx context.Context, q Query) ([]T, error)

// KeyFunc extrae la clave compuesta de una fila.
type KeyFunc[T any] func(T) Key

// Pager pagina cualquier colección append-only ordenada por clave compuesta.
// No conoce el dominio: la colección la define fetch.
type Pager[T any] struct {
	size  int
	key   KeyFunc[T]
	fetch FetchFunc[T]
}

// New construye un pager con tamaño de página fijo.
func New[T any](size int, key KeyFunc[T], fetch FetchFunc[T]) *Pager[T] {
	return &Pager[T]{
		size:  ClampPageSize(size, PageSizeConfig{Default: DefaultPageSize}),
		key:   key,
		fetch: fetch,
	}
}

// Size devuelve el tamaño de página configurado.
func (p *Pager[T]) Size() int {
	return p.size
}

// Page devuelve la página que sigue al cursor (vacío = primera página).
// Pide size+1 filas para saber si hay más sin una consulta adicional.
func (p *Pager[T]) Page(ctx context.Context, cursor string) (Page[T], error) {
	q := Query{Limit: p.size + 1}
	if cursor != "" {
		k, err := DecodeCursor(cursor)
		if err != nil {
			return Page[T]{}, err
		}
		q.After = &k
	}
	return p.page(ctx, q)
}

func (p *Pager[T]) page(ctx context.Context, q Query) (Page[T], error) {
	rows, err := p.fetch(ctx, q)
	if err != nil {
		return Page[T]{}, err
	}
	if len(rows) > p.size+1 {
		return Page[T]{}, fmt.Errorf("pagination: el almacén devolvió %d filas con límite %d", len(rows), q.Limit)
	}
	page := Page[T]{Items: rows}
	if len(rows) > p.size {
		page.Items = rows[:p.size]
		page.NextCursor = EncodeCursor(p.key(page.Items[p.size-1]))
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}

// Walk recorre todas las páginas desde el inicio e invoca fn con cada una.
// Cualquier error de lectura o de fn detiene el recorrido y se devuelve tal cual.
func (p *Pager[T]) Walk(ctx context.Context, fn func(items []T) error) error {
	return Walk[T](ctx, p.Page, fn)
}

// PageFunc obtiene la página que sigue a un cursor; permite intercalar una caché
// entre el recorrido y el pager.
type PageFunc[T any] func(ctx context.Context, cursor string) (Page[T], error)

// Walk recorre las páginas producidas por pageFn hasta la que no trae cursor siguiente.
func Walk[T any](ctx context.Context, pageFn PageFunc[T], fn func(items []T) error) error {
	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := pageFn(ctx, cursor)
		if err != nil {
			return err
		}
		if err := fn(page.Items); err != nil {
			return err
		}
		if page.NextCursor == "" {
			return nil
		}
		cursor = page.NextCursor
	}
}

// All concatena todas las páginas de la colección.
func (p *Pager[T]) All(ctx context.Context) ([]T, error) {
	var out []T
	err := p.Walk(ctx, func(items []T) error {
		out = append(out, items...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
