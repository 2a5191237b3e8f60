package application

import "time"

// TimeRange 闭区间时间段 [Start, End]。
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Overlaps 闭区间相交判断：s1 <= e2 且 s2 <= e1。
// 端点相接（前一段的结束等于后一段的开始）同样视为冲突。
func (r TimeRange) Overlaps(o TimeRange) bool {
	return !r.Start.After(o.End) && !o.Start.After(r.End)
}

// HasOverlap 判断候选区间是否与任一已有区间冲突。
func HasOverlap(existing []TimeRange, start, end time.Time) bool {
	cand := TimeRange{Start: start, End: end}
	for _, r := range existing {
		if cand.Overlaps(r) {
			return true
		}
	}
	return false
}

func rangesOf(apps []Application) []TimeRange {
	out := make([]TimeRange, 0, len(apps))
	for _, a := range apps {
		out = append(out, TimeRange{Start: a.StartTime, End: a.EndTime})
	}
	return out
}
