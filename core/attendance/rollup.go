package attendance

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/trezcool/mahudhurio/core"
)

type (
	FacultyNode struct {
		Faculty       string        `json:"faculty"`
		Advisors      []AdvisorNode `json:"advisors"`
		TotalStudents int           `json:"totalStudents"`
	}

	AdvisorNode struct {
		Advisor       string        `json:"advisor"`
		Students      []StudentNode `json:"students"`
		TotalStudents int           `json:"totalStudents"`
	}

	// StudentNode is an at-risk student with only the courses meeting the minimum absence rate.
	StudentNode struct {
		Student
		Courses []Record `json:"courses"`
	}

	FacultyCourseSummary struct {
		Faculty      string `json:"faculty"`
		CourseCount  int    `json:"courseCount"`
		AvgRate      Rate   `json:"avgRate"`
		TrendsUp     int    `json:"trendsUp"`
		TrendsDown   int    `json:"trendsDown"`
		TrendsStable int    `json:"trendsStable"`
	}
)

// collator is not safe for concurrent use, so a new one is built per call.
func (a *Analyzer) collator() *collate.Collator {
	tag, err := language.Parse(a.opts.CollationLocale)
	if err != nil {
		tag = language.Und
	}
	return collate.New(tag)
}

func compareLabels(cl *collate.Collator, x, y string) bool {
	if c := cl.CompareString(x, y); c != 0 {
		return c < 0
	}
	return x < y
}

// SortLabels sorts display labels (faculty, advisor names) with locale-aware collation.
func (a *Analyzer) SortLabels(labels []string) {
	cl := a.collator()
	sort.SliceStable(labels, func(i, j int) bool { return compareLabels(cl, labels[i], labels[j]) })
}

// orderedGroups is a map that remembers insertion order of its keys.
type orderedGroups[V any] struct {
	keys []string
	vals map[string]V
}

func newOrderedGroups[V any]() *orderedGroups[V] {
	return &orderedGroups[V]{vals: make(map[string]V)}
}

func (g *orderedGroups[V]) get(key string, init func() V) V {
	v, ok := g.vals[key]
	if !ok {
		v = init()
		g.vals[key] = v
		g.keys = append(g.keys, key)
	}
	return v
}

// FacultyAdvisorTree builds the Faculty → Advisor → Student hierarchy of at-risk students.
// Only records with an absence rate of at least minAbsenceRate are kept (the configured minimum
// when minAbsenceRate < 0); students left without any are dropped. Students keep their input order.
func (a *Analyzer) FacultyAdvisorTree(students []Student, minAbsenceRate float64) []FacultyNode {
	if minAbsenceRate < 0 {
		minAbsenceRate = a.opts.MinAbsenceRate
	}

	faculties := newOrderedGroups[*orderedGroups[[]StudentNode]]()
	for _, s := range students {
		if s.RiskLevel == RiskNormal {
			continue
		}
		var courses []Record
		for _, r := range s.Records {
			if float64(r.AbsenceRate) >= minAbsenceRate {
				courses = append(courses, r)
			}
		}
		if len(courses) == 0 {
			continue
		}

		node := StudentNode{Student: s, Courses: courses}
		node.Records = nil
		advisors := faculties.get(a.unspecified(s.Faculty), newOrderedGroups[[]StudentNode])
		advisor := a.unspecified(s.AdvisorName)
		advisors.vals[advisor] = append(advisors.get(advisor, func() []StudentNode { return nil }), node)
	}

	cl := a.collator()
	sortKeys := func(keys []string) {
		sort.SliceStable(keys, func(i, j int) bool { return compareLabels(cl, keys[i], keys[j]) })
	}

	sortKeys(faculties.keys)
	tree := make([]FacultyNode, 0, len(faculties.keys))
	for _, fac := range faculties.keys {
		advisors := faculties.vals[fac]
		sortKeys(advisors.keys)

		fn := FacultyNode{Faculty: fac, Advisors: make([]AdvisorNode, 0, len(advisors.keys))}
		for _, adv := range advisors.keys {
			an := AdvisorNode{Advisor: adv, Students: advisors.vals[adv]}
			an.TotalStudents = len(an.Students)
			fn.Advisors = append(fn.Advisors, an)
		}
		for _, an := range fn.Advisors {
			fn.TotalStudents += an.TotalStudents
		}
		tree = append(tree, fn)
	}
	return tree
}

// FacultyCourseRollup counts course trends per faculty and averages their overall session rates.
func (a *Analyzer) FacultyCourseRollup(courses []Course) []FacultyCourseSummary {
	groups := newOrderedGroups[[]Course]()
	for _, c := range courses {
		fac := a.unspecified(c.Faculty)
		groups.vals[fac] = append(groups.get(fac, func() []Course { return nil }), c)
	}

	cl := a.collator()
	sort.SliceStable(groups.keys, func(i, j int) bool { return compareLabels(cl, groups.keys[i], groups.keys[j]) })

	summaries := make([]FacultyCourseSummary, 0, len(groups.keys))
	for _, fac := range groups.keys {
		cs := groups.vals[fac]
		sum := FacultyCourseSummary{Faculty: fac, CourseCount: len(cs)}
		rates := make([]float64, 0, len(cs))
		for _, c := range cs {
			rates = append(rates, float64(c.Matrix.OverallRate))
			switch c.Trend {
			case TrendUp:
				sum.TrendsUp++
			case TrendDown:
				sum.TrendsDown++
			default:
				sum.TrendsStable++
			}
		}
		sum.AvgRate = Rate(core.Mean(rates))
		summaries = append(summaries, sum)
	}
	return summaries
}

// SortCoursesByFaculty orders courses by faculty (collated), then by course code, revision, section and study code.
func (a *Analyzer) SortCoursesByFaculty(courses []Course) {
	cl := a.collator()
	sort.SliceStable(courses, func(i, j int) bool {
		fi, fj := a.unspecified(courses[i].Faculty), a.unspecified(courses[j].Faculty)
		if fi != fj {
			return compareLabels(cl, fi, fj)
		}
		return courses[i].CourseKey.less(courses[j].CourseKey)
	})
}
