package engine

import (
	"go.uber.org/zap"

	"github.com/TheodoreKrypton/pytrade/pkg/utility/fixed"
)

// Report summarises a finished run from the balance history and the closed
// orders. Cancelled pending orders are not counted as trades.
type Report struct {
	InitialBalance fixed.Point
	FinalBalance   fixed.Point
	TotalProfit    fixed.Point
	MaxDrawdown    fixed.Point
	TotalTrades    int
	WinningTrades  int
	LosingTrades   int
	WinRate        fixed.Point
	AverageWin     fixed.Point
	AverageLoss    fixed.Point
}

// Report builds the performance summary of the run so far.
func (e *Engine) Report() Report {
	report := Report{
		InitialBalance: e.balance[0],
		FinalBalance:   e.balance[len(e.balance)-1],
		MaxDrawdown:    fixed.MaxDrawdown(e.balance),
	}
	report.TotalProfit = report.FinalBalance.Sub(report.InitialBalance)

	var wins, losses []fixed.Point
	for _, o := range e.book.History() {
		if !o.Op.IsMarket() {
			// Cancelled before activation
			continue
		}
		report.TotalTrades++
		profit := o.Profit()
		if profit.IsNeg() {
			losses = append(losses, profit)
		} else {
			wins = append(wins, profit)
		}
	}
	report.WinningTrades = len(wins)
	report.LosingTrades = len(losses)
	if report.TotalTrades > 0 {
		report.WinRate = fixed.FromInt(report.WinningTrades, 0).DivInt(report.TotalTrades)
	}
	report.AverageWin = fixed.Mean(wins)
	report.AverageLoss = fixed.Mean(losses)
	return report
}

func (report Report) Print(logger *zap.Logger) {
	logger.Info("performance report",
		zap.String("initial_balance", report.InitialBalance.String()),
		zap.String("final_balance", report.FinalBalance.String()),
		zap.String("total_profit", report.TotalProfit.String()),
		zap.String("max_drawdown", report.MaxDrawdown.String()),
	)

	logger.Info("trade statistics",
		zap.Int("total_trades", report.TotalTrades),
		zap.Int("winning_trades", report.WinningTrades),
		zap.Int("losing_trades", report.LosingTrades),
		zap.String("win_rate", report.WinRate.String()),
		zap.String("average_win", report.AverageWin.String()),
		zap.String("average_loss", report.AverageLoss.String()),
	)
}
