// Package output writes arena battle reports to xlsx workbooks.
package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cepsu/cFork-OPR/internal/model"
)

// WriteReport saves one row per battle plus an aggregate summary sheet to
// path. An empty record slice still produces a file with headers.
func WriteReport(path string, records []model.BattleRecord) error {
	f := excelize.NewFile()
	battles := "Battles"
	summary := "Summary"
	_ = f.SetSheetName("Sheet1", battles)
	if _, err := f.NewSheet(summary); err != nil {
		return err
	}

	headers := []string{
		"Name", "Red Army", "Blue Army", "Red Strategy", "Blue Strategy",
		"Winner", "Rounds", "Red Objectives", "Blue Objectives",
		"Red Models", "Blue Models", "Seed", "Finished",
	}
	for i, hname := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		f.SetCellValue(battles, col+"1", hname)
	}

	headerStyleID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(battles, "A1", "M1", headerStyleID); err != nil {
		return err
	}

	redWins, blueWins, draws := 0, 0, 0
	totalRounds := 0
	redModels, blueModels := 0, 0

	row := 1
	for _, r := range records {
		row++
		winner := r.Winner
		switch winner {
		case "Red":
			redWins++
		case "Blue":
			blueWins++
		default:
			winner = "Draw"
			draws++
		}
		totalRounds += r.Rounds
		redModels += r.RedModels
		blueModels += r.BlueModels

		f.SetCellValue(battles, fmt.Sprintf("A%d", row), r.Name)
		f.SetCellValue(battles, fmt.Sprintf("B%d", row), r.RedArmy)
		f.SetCellValue(battles, fmt.Sprintf("C%d", row), r.BlueArmy)
		f.SetCellValue(battles, fmt.Sprintf("D%d", row), r.RedStrategy)
		f.SetCellValue(battles, fmt.Sprintf("E%d", row), r.BlueStrategy)
		f.SetCellValue(battles, fmt.Sprintf("F%d", row), winner)
		f.SetCellValue(battles, fmt.Sprintf("G%d", row), r.Rounds)
		f.SetCellValue(battles, fmt.Sprintf("H%d", row), r.RedObjectives)
		f.SetCellValue(battles, fmt.Sprintf("I%d", row), r.BlueObjectives)
		f.SetCellValue(battles, fmt.Sprintf("J%d", row), r.RedModels)
		f.SetCellValue(battles, fmt.Sprintf("K%d", row), r.BlueModels)
		f.SetCellValue(battles, fmt.Sprintf("L%d", row), r.Seed)
		f.SetCellValue(battles, fmt.Sprintf("M%d", row), r.FinishedAt.Format("2006-01-02 15:04:05"))
	}

	f.SetCellValue(summary, "A1", "Battles")
	f.SetCellValue(summary, "B1", len(records))
	f.SetCellValue(summary, "A2", "Red wins")
	f.SetCellValue(summary, "B2", redWins)
	f.SetCellValue(summary, "A3", "Blue wins")
	f.SetCellValue(summary, "B3", blueWins)
	f.SetCellValue(summary, "A4", "Draws")
	f.SetCellValue(summary, "B4", draws)

	if n := len(records); n > 0 {
		f.SetCellValue(summary, "C2", float64(redWins)/float64(n))
		f.SetCellValue(summary, "C3", float64(blueWins)/float64(n))
		f.SetCellValue(summary, "C4", float64(draws)/float64(n))
		f.SetCellValue(summary, "A5", "Avg rounds")
		f.SetCellValue(summary, "B5", float64(totalRounds)/float64(n))
		f.SetCellValue(summary, "A6", "Avg red survivors")
		f.SetCellValue(summary, "B6", float64(redModels)/float64(n))
		f.SetCellValue(summary, "A7", "Avg blue survivors")
		f.SetCellValue(summary, "B7", float64(blueModels)/float64(n))

		// Win rates as percentages: 1.0 => 100%
		pctStyleID, err := f.NewStyle(&excelize.Style{NumFmt: 10})
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(summary, "C2", "C4", pctStyleID); err != nil {
			return err
		}
	}

	if idx, err := f.GetSheetIndex(battles); err == nil {
		f.SetActiveSheet(idx)
	}
	return f.SaveAs(path)
}
