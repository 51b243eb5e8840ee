package services

// Services defined in this package:
// - StudentService: student lifecycle (create, update, remove) and student reads
// - EnrollmentService: direct enrollment edits
// - HistoryService: audit log queries and pending audit gaps
// - CourseService: course catalog and preceptor assignment
