package core

import (
	"sort"
	"time"

	"sensor_features/internal/domain/model"
)

type IntervalCounter struct{}

// BinEdges генерирует границы интервалов от start до end включительно
// с шагом interval, всё в UTC.
func BinEdges(start, end time.Time, interval time.Duration) []time.Time {
	if interval <= 0 {
		return nil
	}
	var edges []time.Time
	for t := start.UTC(); !t.After(end.UTC()); t = t.Add(interval) {
		edges = append(edges, t)
	}
	return edges
}

// Count раскладывает события по интервалам (edge[i], edge[i+1]].
// Событие ровно на границе относится к более раннему интервалу; событие
// ровно в start не учитывается вовсе. Так считал исходный конвейер, и
// обученный на его таблицах классификатор ожидает те же границы.
// Последняя сгенерированная граница служит только верхним пределом
// предпоследнего интервала, собственного интервала у неё нет.
func (c *IntervalCounter) Count(events []model.Event, start, end time.Time, interval time.Duration) []model.CountPoint {
	edges := BinEdges(start, end, interval)
	if len(edges) < 2 {
		return nil
	}

	points := make([]model.CountPoint, len(edges)-1)
	for i := range points {
		points[i] = model.CountPoint{Datetime: edges[i]}
	}

	for _, ev := range events {
		t := ev.Datetime.UTC()
		// Первая граница со значением >= t.
		j := sort.Search(len(edges), func(k int) bool { return !edges[k].Before(t) })
		if j == 0 || j == len(edges) {
			continue // до start включительно либо после последней границы
		}
		points[j-1].EventCount++
	}

	return points
}
