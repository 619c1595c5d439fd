// Package lock implementa bloqueos por llave para serializar escrituras sobre pares
// (artículo, bodega): en proceso (Local) o distribuido sobre Redis (Redis).
package lock

import "sort"

// normalize ordena y elimina duplicados. Tomar las llaves siempre en el mismo orden evita
// interbloqueos entre operaciones que tocan los mismos pares (p. ej. traslados A->B y B->A).
func normalize(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
