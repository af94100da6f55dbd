package recommender

import "math"

// CSRMatrix es una matriz rala en formato comprimido por filas, el mismo
// layout indptr/indices/data de los artefactos matrix_user_csr. El cero
// estructural significa "sin rating": un rating nunca vale 0 en este
// dominio, así que la ausencia no se confunde con ningún valor calculado.
type CSRMatrix struct {
	Indptr  []int
	Indices []int
	Data    []float64
	Rows    int
	Cols    int
}

// Row devuelve las columnas presentes y sus valores para la fila u.
// Son slices sobre el almacenamiento interno: no mutar.
func (m *CSRMatrix) Row(u int) (cols []int, vals []float64) {
	if u < 0 || u >= m.Rows {
		return nil, nil
	}
	lo, hi := m.Indptr[u], m.Indptr[u+1]
	return m.Indices[lo:hi], m.Data[lo:hi]
}

// NNZ es la cantidad de entradas presentes.
func (m *CSRMatrix) NNZ() int { return len(m.Data) }

// Get devuelve (valor, presente) para una celda. Búsqueda lineal sobre la
// fila; las filas de ratings por usuario son cortas.
func (m *CSRMatrix) Get(u, i int) (float64, bool) {
	cols, vals := m.Row(u)
	for p, c := range cols {
		if c == i {
			return vals[p], true
		}
	}
	return 0, false
}

// cosineRows calcula el coseno entre dos filas ralas (columnas ordenadas
// ascendente). Si alguna fila tiene norma cero devuelve 0, nunca NaN.
func cosineRows(aCols []int, aVals []float64, bCols []int, bVals []float64) float64 {
	var dot, na, nb float64
	for _, v := range aVals {
		na += v * v
	}
	for _, v := range bVals {
		nb += v * v
	}
	if na == 0 || nb == 0 {
		return 0
	}

	// merge de dos listas ordenadas
	p, q := 0, 0
	for p < len(aCols) && q < len(bCols) {
		switch {
		case aCols[p] == bCols[q]:
			dot += aVals[p] * bVals[q]
			p++
			q++
		case aCols[p] < bCols[q]:
			p++
		default:
			q++
		}
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
