package dashboard

// Status 화면의 비동기 영역(상세, 요약, 경쟁 상품 목록, 유사 상품)의 상태
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// SectionState 한 영역의 현재 상태. Status가 StatusError일 때만 ErrorKind와 Error가 채워집니다.
type SectionState struct {
	Status    Status    `json:"status"`
	ErrorKind ErrorKind `json:"errorKind,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// section 영역 상태와 요청 세대(generation)를 관리합니다. 소유자의 mutex로 보호해야 합니다.
//
// begin이 반환한 세대가 current로 확인되지 않는 응답은 이후의 요청에 의해 대체된 것이므로 버립니다.
type section struct {
	state SectionState
	gen   uint64
}

func newSection() section {
	return section{state: SectionState{Status: StatusIdle}}
}

func (s *section) begin() uint64 {
	s.gen++
	s.state = SectionState{Status: StatusLoading}
	return s.gen
}

func (s *section) current(gen uint64) bool {
	return gen == s.gen
}

func (s *section) succeed() {
	s.state = SectionState{Status: StatusSuccess}
}

func (s *section) fail(err error, fallback string) {
	kind, msg := describeError(err, fallback)
	s.state = SectionState{Status: StatusError, ErrorKind: kind, Error: msg}
}

// reset 진행 중인 요청의 응답을 무효화하고 idle 상태로 되돌립니다.
func (s *section) reset() {
	s.gen++
	s.state = SectionState{Status: StatusIdle}
}
