package ascender

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	endedScale  = 10000
	statusScale = 100
)

// JobSet is the ranked list of jobs for one employee. Index 0 is the current job.
type JobSet []Job

// Current returns the authoritative job.
func (s JobSet) Current() Job {
	return s[0]
}

// RankKey scores a job for ordering within its employee group.
//
// Jobs that ended on or before today score their end date as YYYYMMDD*10000. Every other
// job scores tomorrow as YYYYMMDD0000, so all open jobs share the highest primary score.
// A status listed in StatusRanking adds (index+1)*100.
func RankKey(job *Job, today time.Time) int64 {
	var key int64

	end := string(job.JobEndDate)
	if end != "" && end <= today.Format(DateLayout) {
		n, err := strconv.ParseInt(strings.ReplaceAll(end, "-", ""), 10, 64)
		if err == nil {
			key = n * endedScale
		}
	} else {
		key, _ = strconv.ParseInt(today.AddDate(0, 0, 1).Format("20060102")+"0000", 10, 64)
	}

	if i := slices.Index(StatusRanking, job.EmpStatus); i >= 0 {
		key += int64(i+1) * statusScale
	}

	return key
}

// Rank orders jobs by descending RankKey. Equal keys keep their feed order.
func Rank(jobs []Job, today time.Time) {
	if len(jobs) < 2 { //nolint:mnd
		return
	}

	type ranked struct {
		job Job
		key int64
	}

	r := make([]ranked, len(jobs))
	for i := range jobs {
		r[i] = ranked{job: jobs[i], key: RankKey(&jobs[i], today)}
	}

	slices.SortStableFunc(r, func(a, b ranked) int {
		return cmp.Compare(b.key, a.key)
	})

	for i := range r {
		jobs[i] = r[i].job
	}
}
