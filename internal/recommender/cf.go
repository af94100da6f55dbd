package recommender

import (
	"fmt"
	"math"
	"sort"

	"cinerec/internal/models"
)

// denomEps evita división por cero cuando todas las similitudes de los
// vecinos que aportan son 0.
const denomEps = 1e-8

// CFBundle son los artefactos user-based: matriz rala usuario×ítem cruda,
// la misma matriz centrada por usuario (r' = r - mean(u)) y los mapeos
// id<->índice. Inmutable después del build.
type CFBundle struct {
	Raw       *CSRMatrix
	Centered  *CSRMatrix
	UserMeans []float64

	UserIdx map[int]int // userId -> fila
	ItemIdx map[int]int // movieId -> columna
	UserIDs []int       // fila -> userId
	ItemIDs []int       // columna -> movieId
}

// BuildCFBundle construye los artefactos CF a partir del set completo de
// ratings. Determinístico: los índices se asignan ordenando los ids
// ascendente, así la fila 0 siempre es el userId más chico y dos builds
// sobre los mismos eventos producen matrices idénticas.
//
// Si un (userId, movieId) aparece repetido gana el último evento.
func BuildCFBundle(ratings []models.RatingDoc) *CFBundle {
	// último rating por celda
	byUser := make(map[int]map[int]float64)
	itemSeen := make(map[int]struct{})
	for _, r := range ratings {
		row := byUser[r.UserID]
		if row == nil {
			row = make(map[int]float64)
			byUser[r.UserID] = row
		}
		row[r.MovieID] = r.Rating
		itemSeen[r.MovieID] = struct{}{}
	}

	userIDs := make([]int, 0, len(byUser))
	for u := range byUser {
		userIDs = append(userIDs, u)
	}
	sort.Ints(userIDs)

	itemIDs := make([]int, 0, len(itemSeen))
	for i := range itemSeen {
		itemIDs = append(itemIDs, i)
	}
	sort.Ints(itemIDs)

	userIdx := make(map[int]int, len(userIDs))
	for idx, u := range userIDs {
		userIdx[u] = idx
	}
	itemIdx := make(map[int]int, len(itemIDs))
	for idx, i := range itemIDs {
		itemIdx[i] = idx
	}

	// CSR crudo, filas en orden de uIdx y columnas ordenadas dentro de
	// cada fila
	nnz := 0
	for _, row := range byUser {
		nnz += len(row)
	}
	raw := &CSRMatrix{
		Indptr:  make([]int, len(userIDs)+1),
		Indices: make([]int, 0, nnz),
		Data:    make([]float64, 0, nnz),
		Rows:    len(userIDs),
		Cols:    len(itemIDs),
	}
	for uIdx, uid := range userIDs {
		row := byUser[uid]
		cols := make([]int, 0, len(row))
		for mid := range row {
			cols = append(cols, itemIdx[mid])
		}
		sort.Ints(cols)
		for _, c := range cols {
			raw.Indices = append(raw.Indices, c)
			raw.Data = append(raw.Data, row[itemIDs[c]])
		}
		raw.Indptr[uIdx+1] = len(raw.Data)
	}

	// medias por usuario sobre entradas presentes; 0 si no hay ninguna
	// (guarda contra división por cero, nunca NaN)
	means := make([]float64, raw.Rows)
	for u := 0; u < raw.Rows; u++ {
		_, vals := raw.Row(u)
		if len(vals) == 0 {
			continue
		}
		var sum float64
		for _, v := range vals {
			sum += v
		}
		means[u] = sum / float64(len(vals))
	}

	// centrado: se reescriben SOLO las entradas presentes de cada fila,
	// las ausentes siguen ausentes (no se materializa 0 - mean)
	centered := &CSRMatrix{
		Indptr:  raw.Indptr,
		Indices: raw.Indices,
		Data:    make([]float64, len(raw.Data)),
		Rows:    raw.Rows,
		Cols:    raw.Cols,
	}
	for u := 0; u < raw.Rows; u++ {
		lo, hi := raw.Indptr[u], raw.Indptr[u+1]
		for p := lo; p < hi; p++ {
			centered.Data[p] = raw.Data[p] - means[u]
		}
	}

	return &CFBundle{
		Raw:       raw,
		Centered:  centered,
		UserMeans: means,
		UserIdx:   userIdx,
		ItemIdx:   itemIdx,
		UserIDs:   userIDs,
		ItemIDs:   itemIDs,
	}
}

// RecommendForUser predice ratings user-based para el usuario objetivo:
// coseno contra todas las filas centradas, top-k vecinos, predicción
// ponderada sobre los ítems de los vecinos que el objetivo no calificó.
// Si no queda ningún candidato cae al ranking global por popularidad
// (ítems con >= minRatingsPerItem ratings, media desc, count desc), cuya
// salida trae NumRatings y Fallback=true.
//
// El coseno denso contra todos los usuarios es O(U·nnz por fila); para
// poblaciones grandes habría que reemplazarlo por un índice aproximado.
func RecommendForUser(
	userID int,
	bundle *CFBundle,
	movies []models.MovieDoc,
	ratings []models.RatingDoc,
	topN, k, minRatingsPerItem int,
) (*models.CFResult, error) {

	if topN <= 0 {
		return nil, fmt.Errorf("topN debe ser positivo, vino %d: %w", topN, ErrInvalidArgument)
	}
	if k <= 0 {
		return nil, fmt.Errorf("k debe ser positivo, vino %d: %w", k, ErrInvalidArgument)
	}
	uIdx, ok := bundle.UserIdx[userID]
	if !ok {
		return nil, fmt.Errorf("usuario %d no tiene ratings: %w", userID, ErrNotFound)
	}

	byID := moviesByID(movies)

	// 1) similitud contra todos los usuarios, self en 0
	tCols, tVals := bundle.Centered.Row(uIdx)
	sims := make([]float64, bundle.Centered.Rows)
	for v := 0; v < bundle.Centered.Rows; v++ {
		if v == uIdx {
			continue
		}
		vCols, vVals := bundle.Centered.Row(v)
		sims[v] = cosineRows(tCols, tVals, vCols, vVals)
	}

	// 2) top-k vecinos, empates por índice (estable y determinístico).
	// Vecinos con similitud negativa se quedan: aportan evidencia de
	// anti-preferencia con peso negativo.
	neighbors := make([]int, 0, bundle.Centered.Rows-1)
	for v := 0; v < bundle.Centered.Rows; v++ {
		if v != uIdx {
			neighbors = append(neighbors, v)
		}
	}
	sort.SliceStable(neighbors, func(a, b int) bool { return sims[neighbors[a]] > sims[neighbors[b]] })
	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}

	// 3) candidatos: unión de ítems de los vecinos menos los ya
	// calificados, en orden de descubrimiento
	ratedCols, _ := bundle.Raw.Row(uIdx)
	rated := make(map[int]struct{}, len(ratedCols))
	for _, c := range ratedCols {
		rated[c] = struct{}{}
	}

	var candidates []int
	seen := make(map[int]struct{})
	for _, v := range neighbors {
		vCols, _ := bundle.Raw.Row(v)
		for _, c := range vCols {
			if _, ya := rated[c]; ya {
				continue
			}
			if _, ya := seen[c]; ya {
				continue
			}
			seen[c] = struct{}{}
			candidates = append(candidates, c)
		}
	}

	if len(candidates) == 0 {
		return popularityFallback(ratings, byID, topN, minRatingsPerItem), nil
	}

	// 4) predicción ponderada por candidato:
	// r̂(u,i) = mean(u) + sum_v sim(u,v)·(r(v,i) - mean(v)) / (sum_v |sim| + eps)
	type pred struct {
		col   int
		score float64
	}
	preds := make([]pred, 0, len(candidates))
	for _, c := range candidates {
		var num, den float64
		contributed := false
		for _, v := range neighbors {
			r, present := bundle.Raw.Get(v, c)
			if !present {
				continue
			}
			s := sims[v]
			num += s * (r - bundle.UserMeans[v])
			den += math.Abs(s)
			contributed = true
		}
		if !contributed {
			// no debería pasar (los candidatos salen de los vecinos),
			// chequeo defensivo
			continue
		}
		preds = append(preds, pred{col: c, score: bundle.UserMeans[uIdx] + num/(den+denomEps)})
	}

	// 5) ranking final, empates en orden de descubrimiento del candidato
	sort.SliceStable(preds, func(a, b int) bool { return preds[a].score > preds[b].score })
	if len(preds) > topN {
		preds = preds[:topN]
	}

	items := make([]models.CFRec, 0, len(preds))
	for r, p := range preds {
		mid := bundle.ItemIDs[p.col]
		rec := models.CFRec{
			Rank:            r + 1,
			MovieID:         mid,
			PredictedRating: p.score,
		}
		if mv, ok := byID[mid]; ok {
			rec.Title = mv.Title
			rec.Genres = mv.Genres
		}
		items = append(items, rec)
	}
	return &models.CFResult{Fallback: false, Items: items}, nil
}

// popularityFallback rankea por estadística agregada: entre los ítems con
// al menos minRatings ratings, media desc, luego count desc, luego movieId
// asc para que el orden sea reproducible.
func popularityFallback(ratings []models.RatingDoc, byID map[int]models.MovieDoc, topN, minRatings int) *models.CFResult {
	type agg struct {
		sum   float64
		count int64
	}
	stats := make(map[int]*agg)
	for _, r := range ratings {
		a := stats[r.MovieID]
		if a == nil {
			a = &agg{}
			stats[r.MovieID] = a
		}
		a.sum += r.Rating
		a.count++
	}

	type popItem struct {
		movieID int
		mean    float64
		count   int64
	}
	var pop []popItem
	for mid, a := range stats {
		if a.count < int64(minRatings) {
			continue
		}
		pop = append(pop, popItem{movieID: mid, mean: a.sum / float64(a.count), count: a.count})
	}
	sort.Slice(pop, func(i, j int) bool {
		if pop[i].mean != pop[j].mean {
			return pop[i].mean > pop[j].mean
		}
		if pop[i].count != pop[j].count {
			return pop[i].count > pop[j].count
		}
		return pop[i].movieID < pop[j].movieID
	})
	if len(pop) > topN {
		pop = pop[:topN]
	}

	items := make([]models.CFRec, 0, len(pop))
	for r, p := range pop {
		n := p.count
		rec := models.CFRec{
			Rank:            r + 1,
			MovieID:         p.movieID,
			PredictedRating: p.mean,
			NumRatings:      &n,
		}
		if mv, ok := byID[p.movieID]; ok {
			rec.Title = mv.Title
			rec.Genres = mv.Genres
		}
		items = append(items, rec)
	}
	return &models.CFResult{Fallback: true, Items: items}
}

func moviesByID(movies []models.MovieDoc) map[int]models.MovieDoc {
	out := make(map[int]models.MovieDoc, len(movies))
	for _, m := range movies {
		out[m.MovieID] = m
	}
	return out
}
