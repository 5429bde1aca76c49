package catalog

// alias maps a shorthand keyword to the canonical subject name students
// actually use in queries. Order matters: aliases are tried top to bottom
// and the first keyword contained in the query wins, so longer and more
// specific keywords come first.
type alias struct {
	Keyword string
	Subject string
}

var subjectAliases = []alias{
	{"machine learning", "Machine Learning"},
	{"deep learning", "Deep Learning"},
	{"neural network", "Deep Learning"},
	{"natural language", "NLP"},
	{"operating system", "Operating Systems"},
	{"database", "DBMS"},
	{"computer network", "Computer Networks"},
	{"software engineering", "Software Engineering"},
	{"artificial intelligence", "Artificial Intelligence"},
	{"dbms", "DBMS"},
	{"nlp", "NLP"},
	{"ml", "Machine Learning"},
	{"dl", "Deep Learning"},
	{"ai", "Artificial Intelligence"},
	{"os", "Operating Systems"},
	{"cn", "Computer Networks"},
	{"se", "Software Engineering"},
}
