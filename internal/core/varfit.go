package core

import (
	"fmt"
	"math"
	"sort"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"

	"sensor_features/internal/domain/model"
)

type SeriesFitter struct{}

// Fit оценивает VAR(lag)-модель методом наименьших квадратов по рядам
// счётчиков событий, выровненным на общей оси интервалов. Значение каждой
// комнаты в момент t регрессируется на значения всех комнат в моменты
// t-1..t-lag плюс свободный член.
//
// Результат — коэффициент на каждую пару (регрессор, целевая комната);
// регрессор именуется "const" либо "L<k>.<location>".
func (f *SeriesFitter) Fit(series map[string][]model.CountPoint, lag int) (model.CoefficientMatrix, error) {
	if lag < 1 {
		return nil, errors.Wrapf(ErrConfiguration, "lag %d", lag)
	}
	if len(series) == 0 {
		return nil, errors.Wrap(ErrInsufficientData, "no location series")
	}

	// Комнаты в отсортированном порядке — результат детерминирован.
	locations := make([]string, 0, len(series))
	for loc := range series {
		locations = append(locations, loc)
	}
	sort.Strings(locations)

	n := len(series[locations[0]])
	for _, loc := range locations {
		if len(series[loc]) != n {
			return nil, errors.Newf("series for %q has %d points, want %d (misaligned bin axis)", loc, len(series[loc]), n)
		}
	}
	// Для lag лагов нужно хотя бы lag+1 наблюдение.
	if n <= lag {
		return nil, errors.Wrapf(ErrInsufficientData, "%d observations, lag %d", n, lag)
	}

	k := len(locations)
	rows := n - lag
	cols := 1 + k*lag

	// Матрица регрессоров: [1, y(t-1), ..., y(t-lag)] и матрица откликов y(t).
	x := mat.NewDense(rows, cols, nil)
	y := mat.NewDense(rows, k, nil)
	for t := lag; t < n; t++ {
		r := t - lag
		x.Set(r, 0, 1)
		c := 1
		for l := 1; l <= lag; l++ {
			for _, loc := range locations {
				x.Set(r, c, float64(series[loc][t-l].EventCount))
				c++
			}
		}
		for j, loc := range locations {
			y.Set(r, j, float64(series[loc][t].EventCount))
		}
	}

	var beta mat.Dense
	if err := beta.Solve(x, y); err != nil {
		return nil, errors.Wrapf(ErrSingularFit, "%d locations, %d observations: %v", k, n, err)
	}

	coeffs := make(model.CoefficientMatrix, cols*k)
	for j, target := range locations {
		if v := beta.At(0, j); !math.IsNaN(v) && !math.IsInf(v, 0) {
			coeffs[model.CoefficientKey{Regressor: "const", Target: target}] = v
		} else {
			return nil, errors.Wrapf(ErrSingularFit, "non-finite coefficient for %s", target)
		}
		c := 1
		for l := 1; l <= lag; l++ {
			for _, src := range locations {
				v := beta.At(c, j)
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, errors.Wrapf(ErrSingularFit, "non-finite coefficient for %s", target)
				}
				coeffs[model.CoefficientKey{Regressor: lagRegressor(l, src), Target: target}] = v
				c++
			}
		}
	}
	return coeffs, nil
}

// lagRegressor именует лаговый регрессор в том же виде, что и исходный
// конвейер: "L1.kitchen", "L2.lounge" и т.д.
func lagRegressor(lag int, location string) string {
	return fmt.Sprintf("L%d.%s", lag, location)
}
