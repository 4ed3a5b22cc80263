package models

// NextConfidenceAvg folds one more recognized detection into a person's
// running confidence average. oldTotal is the detection count before the
// increment, so the first recognition after registration yields
// confidence/2, the second (c1+c2)/3, and so on. The equivalent closed form
// is sum(recognition confidences) / total detections.
func NextConfidenceAvg(avg float64, oldTotal int64, confidence float64) float64 {
	return (avg*float64(oldTotal) + confidence) / float64(oldTotal+1)
}
