package constants

const (
	// Points awarded per unit of activity. Achievement points are added on
	// top from the catalog.
	PointsPerCompletion    = 10
	PointsPerMedia         = 50
	PointsPerCompletedGoal = 100

	// DefaultWeeklyTarget is used when a habit carries no usable target
	DefaultWeeklyTarget = 7
	// StreakScanDays bounds the backward scan for the current streak
	StreakScanDays = 365

	// Weekly progress bands
	BandGoodPercent = 80
	BandFairPercent = 60

	// Daily nutrition targets
	TargetCalories = 2000
	TargetProtein  = 150
	TargetCarbs    = 250
	TargetFat      = 65
)

func init() {
	if BandGoodPercent <= BandFairPercent {
		panic("BandGoodPercent must be greater than BandFairPercent")
	}
}
