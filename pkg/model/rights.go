package model

// Rights is the access-rights bitmask the server issues with a session.
// The launcher only decodes it for display; the raw value is what gets
// handed to the game runtime.
type Rights uint32

// Course represents one subscription course encoded in the rights bitmask.
type Course uint32

const (
	CourseTrial      Course = 1 << 0 // free trial access
	CourseHunterLife Course = 1 << 1 // base subscription
	CourseExtra      Course = 1 << 2
	CourseMobile     Course = 1 << 3
	CoursePremium    Course = 1 << 4
	CourseNetcafe    Course = 1 << 5
)

// allCourses lists the known courses in display order.
var allCourses = []Course{
	CourseTrial,
	CourseHunterLife,
	CourseExtra,
	CourseMobile,
	CoursePremium,
	CourseNetcafe,
}

func (c Course) String() string {
	switch c {
	case CourseTrial:
		return "Trial"
	case CourseHunterLife:
		return "Hunter Life"
	case CourseExtra:
		return "Extra"
	case CourseMobile:
		return "Mobile"
	case CoursePremium:
		return "Premium"
	case CourseNetcafe:
		return "Netcafe"
	default:
		return "unknown"
	}
}

// Has reports whether the rights bitmask includes the given course.
func (r Rights) Has(c Course) bool {
	return uint32(r)&uint32(c) != 0
}

// Courses returns the known courses present in the bitmask, in display
// order. Unknown bits are ignored.
func (r Rights) Courses() []Course {
	var out []Course
	for _, c := range allCourses {
		if r.Has(c) {
			out = append(out, c)
		}
	}
	return out
}
