package lca

import "math"

// Letter grades from best to worst
const (
	GradeAPlus = "A+"
	GradeA     = "A"
	GradeB     = "B"
	GradeC     = "C"
	GradeD     = "D"
	GradeF     = "F"
)

var gradeOrder = []string{GradeF, GradeD, GradeC, GradeB, GradeA, GradeAPlus}

// ScoreComponents returns the unrounded component scores and their mean.
func ScoreComponents(totalCO2, totalEnergy, totalMaterials float64) (co2, energy, materials, overall float64) {
	co2 = math.Max(0, 100-totalCO2/10)
	energy = math.Max(0, 100-totalEnergy/100)
	materials = math.Max(0, 100-totalMaterials/50)
	overall = (co2 + energy + materials) / 3
	return co2, energy, materials, overall
}

// ComputeScores produces display scores rounded to integers and a grade taken from the unrounded
// overall score.
func ComputeScores(totalCO2, totalEnergy, totalMaterials float64) Scores {
	co2, energy, materials, overall := ScoreComponents(totalCO2, totalEnergy, totalMaterials)
	return Scores{
		Overall:   int(math.Round(overall)),
		CO2:       int(math.Round(co2)),
		Energy:    int(math.Round(energy)),
		Materials: int(math.Round(materials)),
		Grade:     Grade(overall),
	}
}

// Grade maps an overall score to a letter grade
func Grade(overall float64) string {
	switch {
	case overall >= 90:
		return GradeAPlus
	case overall >= 80:
		return GradeA
	case overall >= 70:
		return GradeB
	case overall >= 60:
		return GradeC
	case overall >= 50:
		return GradeD
	default:
		return GradeF
	}
}

// GradeRank orders grades, F being 0. Unknown grades rank -1.
func GradeRank(grade string) int {
	for i, g := range gradeOrder {
		if g == grade {
			return i
		}
	}
	return -1
}
