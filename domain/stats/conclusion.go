package stats

import "fmt"

// TTestConclusion states the parametric decision at SignificanceAlpha.
func (r Report) TTestConclusion() string {
	if r.TTestRejectsNull {
		return fmt.Sprintf("Reject H0 (p=%.5f < %.2f): the group means differ significantly.", r.TTestPValue, SignificanceAlpha)
	}
	return fmt.Sprintf("Do not reject H0 (p=%.5f): no evidence that the group means differ.", r.TTestPValue)
}

// MannWhitneyConclusion states the non-parametric decision at SignificanceAlpha.
func (r Report) MannWhitneyConclusion() string {
	if r.MannWhitneyRejectsNull {
		return fmt.Sprintf("Reject H0 (p=%.5f < %.2f): the group distributions differ significantly in location.", r.MannWhitneyPValue, SignificanceAlpha)
	}
	return fmt.Sprintf("Do not reject H0 (p=%.5f): no evidence that the group distributions differ.", r.MannWhitneyPValue)
}

// Justification explains the recommendation.
func (r Report) Justification() string {
	if r.RecommendedTest == TTest {
		text := fmt.Sprintf("The t-test is the most appropriate: both groups pass the Shapiro-Wilk normality check (p=%.4f and p=%.4f, both > %.2f). "+
			"When its assumptions hold the t-test has more statistical power than the Mann-Whitney U test.",
			r.ShapiroPValueControl, r.ShapiroPValueTreatment, NormalityAlpha)
		if r.TestsAgree {
			return text + " Both tests reach the same conclusion, which supports the t-test result."
		}
		return text + " The two tests disagree here; the t-test result is the one to trust."
	}

	text := fmt.Sprintf("The Mann-Whitney U test is the most appropriate: Shapiro-Wilk rejects normality in at least one group (p=%.4f and p=%.4f). "+
		"The t-test relies on normality and may mislead here, while the rank-based U test is robust to skew and outliers.",
		r.ShapiroPValueControl, r.ShapiroPValueTreatment)
	if r.TestsAgree {
		return text + " Both tests happen to reach the same conclusion."
	}
	return text + " The two tests disagree; rely on the Mann-Whitney U result."
}
