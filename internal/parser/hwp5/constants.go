// Package hwp5 decodes and encodes HWP 5.x binary documents.
package hwp5

// HWP 5.x 파일 포맷 상수 정의
// 참조: https://cdn.hancom.com/link/docs/한글문서파일형식_5.0_revision1.3.pdf

const (
	// FileHeader 시그니처
	Signature = "HWP Document File"

	// FileHeader 크기 (고정)
	FileHeaderSize = 256

	// 속성 플래그 비트
	FlagCompressed      uint32 = 1 << 0  // 압축 여부
	FlagEncrypted       uint32 = 1 << 1  // 암호 설정 여부
	FlagDistributable   uint32 = 1 << 2  // 배포용 문서
	FlagScript          uint32 = 1 << 3  // 스크립트 저장
	FlagDRM             uint32 = 1 << 4  // DRM 보안
	FlagXMLTemplate     uint32 = 1 << 5  // XMLTemplate 저장
	FlagHistory         uint32 = 1 << 6  // 문서 이력 관리
	FlagSignature       uint32 = 1 << 7  // 전자 서명
	FlagCertEncrypt     uint32 = 1 << 8  // 공인 인증서 암호화
	FlagSignatureReserv uint32 = 1 << 9  // 전자 서명 예비
	FlagCertDRM         uint32 = 1 << 10 // 공인 인증서 DRM
	FlagCCL             uint32 = 1 << 11 // CCL 문서
	FlagMobile          uint32 = 1 << 12 // 모바일 최적화
)

// 스트림 이름
const (
	StreamFileHeader  = "FileHeader"
	StreamDocInfo     = "DocInfo"
	StreamBodyText    = "BodyText"
	StreamViewText    = "ViewText"
	StreamSummaryInfo = "\x05HwpSummaryInformation"
	StreamBinData     = "BinData"
	StreamPrvText     = "PrvText"
	StreamPrvImage    = "PrvImage"
	StreamDocOptions  = "DocOptions"
	StreamScripts     = "Scripts"
)

// 레코드 태그 ID (HWPTAG_*)
const (
	// DocInfo 레코드 태그
	TagDocumentProperties uint16 = 0x0010 // 문서 속성
	TagIDMappings         uint16 = 0x0011 // ID 매핑 테이블 크기
	TagBinData            uint16 = 0x0012 // 바이너리 데이터
	TagFaceName           uint16 = 0x0013 // 글꼴
	TagBorderFill         uint16 = 0x0014 // 테두리/배경
	TagCharShape          uint16 = 0x0015 // 글자 모양
	TagTabDef             uint16 = 0x0016 // 탭 정의
	TagNumbering          uint16 = 0x0017 // 문단 번호
	TagBullet             uint16 = 0x0018 // 글머리표
	TagParaShape          uint16 = 0x0019 // 문단 모양
	TagStyle              uint16 = 0x001A // 스타일
	TagDocData            uint16 = 0x001B // 문서 데이터
	TagDistributeDocData  uint16 = 0x001C // 배포용 문서 데이터
	TagCompatibleDocument uint16 = 0x001E // 호환 문서
	TagLayoutCompatible   uint16 = 0x001F // 레이아웃 호환
	TagTrackChange        uint16 = 0x0020 // 변경 내역 추적
	TagMemoShape          uint16 = 0x0022 // 메모 모양
	TagForbiddenChar      uint16 = 0x0023 // 금칙 문자
	TagTrackChange2       uint16 = 0x0024 // 변경 내역 2
	TagTrackChangeAuthor  uint16 = 0x0025 // 변경 내역 작성자

	// Section/Body 레코드 태그
	TagParaHeader     uint16 = 0x0042 // 문단 헤더
	TagParaText       uint16 = 0x0043 // 문단 텍스트
	TagParaCharShape  uint16 = 0x0044 // 문단 글자 모양
	TagParaLineSeg    uint16 = 0x0045 // 문단 레이아웃
	TagParaRangeTag   uint16 = 0x0046 // 문단 범위 태그
	TagCtrlHeader     uint16 = 0x0047 // 컨트롤 헤더
	TagListHeader     uint16 = 0x0048 // 리스트 헤더
	TagPageDef        uint16 = 0x0049 // 페이지 정의
	TagFootnoteShape  uint16 = 0x004A // 각주 모양
	TagPageBorderFill uint16 = 0x004B // 페이지 테두리/배경
	TagShapeComponent uint16 = 0x004C // 그리기 개체
	TagTable          uint16 = 0x004D // 표
	TagShapeLine      uint16 = 0x004E // 선
	TagShapeRectangle uint16 = 0x004F // 사각형
	TagShapeEllipse   uint16 = 0x0050 // 타원
	TagShapeArc       uint16 = 0x0051 // 호
	TagShapePolygon   uint16 = 0x0052 // 다각형
	TagShapeCurve     uint16 = 0x0053 // 곡선
	TagShapeOLE       uint16 = 0x0054 // OLE
	TagShapePicture   uint16 = 0x0055 // 그림
	TagShapeContainer uint16 = 0x0056 // 컨테이너
	TagCtrlData       uint16 = 0x0057 // 컨트롤 데이터
	TagEqEdit         uint16 = 0x0058 // 수식
	TagShapeTextArt   uint16 = 0x005A // 글맵시
	TagCtrlFormField  uint16 = 0x005B // 양식 컨트롤
	TagMemoList       uint16 = 0x005C // 메모 리스트
	TagChartData      uint16 = 0x005F // 차트 데이터
	TagVideoData      uint16 = 0x0062 // 비디오 데이터
)

// 컨트롤 ID: 4글자 ASCII를 big-endian 정수로 읽은 값. 파일에는 little-endian으로
// 저장되므로 "tbl "은 바이트열 " lbt"로 나타난다.
const (
	CtrlSection       uint32 = 's'<<24 | 'e'<<16 | 'c'<<8 | 'd' // 구역 정의
	CtrlColumn        uint32 = 'c'<<24 | 'o'<<16 | 'l'<<8 | 'd' // 단 정의
	CtrlHeader        uint32 = 'h'<<24 | 'e'<<16 | 'a'<<8 | 'd' // 머리말
	CtrlFooter        uint32 = 'f'<<24 | 'o'<<16 | 'o'<<8 | 't' // 꼬리말
	CtrlFootnote      uint32 = 'f'<<24 | 'n'<<16 | ' '<<8 | ' ' // 각주
	CtrlEndnote       uint32 = 'e'<<24 | 'n'<<16 | ' '<<8 | ' ' // 미주
	CtrlAutoNumber    uint32 = 'a'<<24 | 't'<<16 | 'n'<<8 | 'o' // 자동 번호
	CtrlNewNumber     uint32 = 'n'<<24 | 'w'<<16 | 'n'<<8 | 'o' // 새 번호
	CtrlPageHide      uint32 = 'p'<<24 | 'g'<<16 | 'h'<<8 | 'd' // 감추기
	CtrlPageNumber    uint32 = 'p'<<24 | 'g'<<16 | 'n'<<8 | 'p' // 쪽 번호 위치
	CtrlBookmark      uint32 = 'b'<<24 | 'o'<<16 | 'k'<<8 | 'm' // 책갈피
	CtrlHiddenComment uint32 = 't'<<24 | 'c'<<16 | 'm'<<8 | 't' // 숨은 설명
	CtrlTable         uint32 = 't'<<24 | 'b'<<16 | 'l'<<8 | ' ' // 표
	CtrlGSO           uint32 = 'g'<<24 | 's'<<16 | 'o'<<8 | ' ' // 그리기 개체
	CtrlEquation      uint32 = 'e'<<24 | 'q'<<16 | 'e'<<8 | 'd' // 수식
	CtrlFieldHyper    uint32 = '%'<<24 | 'h'<<16 | 'l'<<8 | 'k' // 하이퍼링크 필드
)

// 특수 문자 코드 (PARA_TEXT)
const (
	CharLineBreak   uint16 = 0x000A // 줄 나눔
	CharParaBreak   uint16 = 0x000D // 문단 끝
	CharSectionDef  uint16 = 0x0002 // 구역/단 정의
	CharFieldStart  uint16 = 0x0003 // 필드 시작
	CharFieldEnd    uint16 = 0x0004 // 필드 끝
	CharTab         uint16 = 0x0009 // 탭
	CharDrawingObj  uint16 = 0x000B // 그리기 개체/표
	CharHidden      uint16 = 0x000F // 숨은 설명
	CharHeaderFoot  uint16 = 0x0010 // 머리말/꼬리말
	CharFootnote    uint16 = 0x0011 // 각주/미주
	CharAutoNumber  uint16 = 0x0012 // 자동 번호
	CharPageCtrl    uint16 = 0x0015 // 쪽 컨트롤
	CharBookmark    uint16 = 0x0016 // 책갈피/찾아보기
	CharOverlap     uint16 = 0x0017 // 덧말/글자 겹침
	CharHyphen      uint16 = 0x0018 // 하이픈
	CharBundleSpace uint16 = 0x001E // 묶음 빈칸
	CharFixedSpace  uint16 = 0x001F // 고정폭 빈칸

	// 확장/인라인 컨트롤 문자는 코드 포함 8 WCHAR를 차지한다.
	ControlCharWidth = 8
)

// IsExtendedControl reports whether c is an extended control character, one that
// anchors a CTRL_HEADER record.
func IsExtendedControl(c uint16) bool {
	return (c >= 1 && c <= 3) || c == 11 || c == 12 || (c >= 14 && c <= 18) || (c >= 21 && c <= 23)
}

// IsInlineControl reports whether c is an inline control character (8 units, no record).
func IsInlineControl(c uint16) bool {
	return (c >= 4 && c <= 9) || c == 19 || c == 20
}

// CtrlIDString renders a control id as its four-character name ("tbl ").
func CtrlIDString(id uint32) string {
	b := []byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}
	for i, c := range b {
		if c < 0x20 || c > 0x7E {
			b[i] = '?'
		}
	}
	return string(b)
}

// MakeCtrlID builds a control id from a four-character name.
func MakeCtrlID(name string) uint32 {
	var id uint32
	for i := range 4 {
		c := byte(' ')
		if i < len(name) {
			c = name[i]
		}
		id = id<<8 | uint32(c)
	}
	return id
}
