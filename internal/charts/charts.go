package charts

import (
	"bytes"
	"fmt"

	"github.com/ivanoskov/intake_bot/internal/model"
	"github.com/wcharczuk/go-chart/v2"
)

// ChartGenerator рисует графики для админ-панели
type ChartGenerator struct{}

// NewChartGenerator создает новый генератор графиков
func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{}
}

// GenerateStatisticsChart рисует столбчатую диаграмму счётчиков заявок.
// Если заявок ещё не было, возвращает nil без ошибки.
func (g *ChartGenerator) GenerateStatisticsChart(stats model.Statistics) ([]byte, error) {
	if stats.AllTime == 0 && stats.Daily == 0 && stats.Weekly == 0 && stats.Monthly == 0 {
		return nil, nil
	}

	top := stats.AllTime
	for _, v := range []int{stats.Daily, stats.Weekly, stats.Monthly} {
		if v > top {
			top = v
		}
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Заявки (пользователей: %d)", stats.Users),
		Width:    800,
		Height:   500,
		BarWidth: 100,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    60,
				Left:   30,
				Right:  30,
				Bottom: 30,
			},
			FillColor: chart.ColorWhite,
		},
		// явный диапазон: при равных столбцах автоматический вырождается
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(top) * 1.2},
		},
		Bars: []chart.Value{
			{Label: fmt.Sprintf("День: %d", stats.Daily), Value: float64(stats.Daily)},
			{Label: fmt.Sprintf("Неделя: %d", stats.Weekly), Value: float64(stats.Weekly)},
			{Label: fmt.Sprintf("Месяц: %d", stats.Monthly), Value: float64(stats.Monthly)},
			{Label: fmt.Sprintf("Всё время: %d", stats.AllTime), Value: float64(stats.AllTime)},
		},
	}

	// Рендерим график
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render statistics chart: %w", err)
	}

	return buffer.Bytes(), nil
}
