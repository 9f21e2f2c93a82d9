package records

const (
	JobsFile       = "vagas.json"
	ApplicantsFile = "applicants.json"
	ProspectsFile  = "prospects.json"
)

type Job struct {
	ID      string     `mapstructure:"-" json:"-"`
	Profile JobProfile `mapstructure:"perfil_vaga" json:"perfil_vaga"`
}

type JobProfile struct {
	MainActivities string `mapstructure:"principais_atividades" json:"principais_atividades,omitempty"`
	Competencies   string `mapstructure:"competencia_tecnicas_e_comportamentais" json:"competencia_tecnicas_e_comportamentais,omitempty"`
	PracticeAreas  string `mapstructure:"areas_atuacao" json:"areas_atuacao,omitempty"`
	SeniorityLevel string `mapstructure:"nivel profissional" json:"nivel profissional,omitempty"`
}

type Applicant struct {
	ID           string           `mapstructure:"-" json:"-"`
	Professional ProfessionalInfo `mapstructure:"informacoes_profissionais" json:"informacoes_profissionais"`
	Education    EducationInfo    `mapstructure:"formacao_e_idiomas" json:"formacao_e_idiomas"`
	Resume       string           `mapstructure:"cv_pt" json:"cv_pt,omitempty"`
}

type ProfessionalInfo struct {
	Title              string `mapstructure:"titulo_profissional" json:"titulo_profissional,omitempty"`
	PracticeArea       string `mapstructure:"area_atuacao" json:"area_atuacao,omitempty"`
	TechnicalKnowledge string `mapstructure:"conhecimentos_tecnicos" json:"conhecimentos_tecnicos,omitempty"`
}

type EducationInfo struct {
	English string `mapstructure:"nivel_ingles" json:"nivel_ingles,omitempty"`
	Spanish string `mapstructure:"nivel_espanhol" json:"nivel_espanhol,omitempty"`
	Other   string `mapstructure:"outro_idioma" json:"outro_idioma,omitempty"`
}

// ProspectEntry holds the pipeline history of a single job.
type ProspectEntry struct {
	JobID     string      `mapstructure:"-" json:"-"`
	Prospects []*Prospect `mapstructure:"prospects" json:"prospects"`
}

// Prospect is one application of a candidate to a job.
type Prospect struct {
	Code   string `mapstructure:"codigo" json:"codigo"`
	Status string `mapstructure:"situacao_candidado" json:"situacao_candidado"`
}

// Table keeps records keyed by id in the order they appear in the source file.
type Table[T any] struct {
	ids   []string
	items map[string]*T
}

// NewTable returns an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{items: make(map[string]*T)}
}

// Put adds or replaces the record. Replacing keeps the original position.
func (t *Table[T]) Put(id string, item *T) {
	if _, ok := t.items[id]; !ok {
		t.ids = append(t.ids, id)
	}
	t.items[id] = item
}

func (t *Table[T]) Get(id string) (*T, bool) {
	if t == nil {
		return nil, false
	}
	item, ok := t.items[id]
	return item, ok
}

func (t *Table[T]) Len() int {
	if t == nil {
		return 0
	}
	return len(t.ids)
}

// IDs returns the record ids in source order.
func (t *Table[T]) IDs() []string {
	if t == nil {
		return []string{}
	}
	ids := make([]string, len(t.ids))
	copy(ids, t.ids)
	return ids
}

// Head returns at most n ids in source order. Negative n is treated as zero.
func (t *Table[T]) Head(n int) []string {
	ids := t.IDs()
	if n < 0 {
		n = 0
	}
	if n < len(ids) {
		ids = ids[:n]
	}
	return ids
}

// Each calls fn for every record in source order.
func (t *Table[T]) Each(fn func(id string, item *T)) {
	if t == nil {
		return
	}
	for _, id := range t.ids {
		fn(id, t.items[id])
	}
}

// Reference holds the tables needed to resolve job and applicant ids.
type Reference struct {
	Jobs       *Table[Job]
	Applicants *Table[Applicant]
}

// Tables holds every input table of a training run.
type Tables struct {
	Reference
	Prospects *Table[ProspectEntry]
}

// EmptyReference returns reference tables without records.
func EmptyReference() *Reference {
	return &Reference{
		Jobs:       NewTable[Job](),
		Applicants: NewTable[Applicant](),
	}
}
