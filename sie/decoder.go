package sie

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/wallinder/levrec"
)

// encodingProbe lists the candidate encodings in probe order. The first one
// that decodes the whole stream without replacement wins.
var encodingProbe = []struct {
	name string
	enc  encoding.Encoding
}{
	{"CP437", charmap.CodePage437},
	{"CP850", charmap.CodePage850},
	{"Latin-1", charmap.ISO8859_1},
	{"UTF-8", unicode.UTF8},
}

// DecodeFile decodes the SIE file at path.
func DecodeFile(path string, cfg levrec.Config) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Offset: -1, Msg: err.Error(), Err: err}
	}
	f, err := DecodeBytes(data, cfg)
	if err != nil {
		if derr, ok := err.(*DecodeError); ok {
			derr.Path = path
		}
		return nil, err
	}
	return f, nil
}

// Decode reads r in full and decodes it.
func Decode(r io.Reader, cfg levrec.Config) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &DecodeError{Offset: -1, Msg: err.Error(), Err: err}
	}
	return DecodeBytes(data, cfg)
}

// DecodeBytes decodes an in-memory SIE stream.
func DecodeBytes(data []byte, cfg levrec.Config) (*File, error) {
	text, name, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	d := &decoder{
		file: &File{Encoding: name, Accounts: make(map[string]string)},
		cfg:  cfg,
	}
	d.run(text)
	return d.file, nil
}

// decodeText probes the candidate encodings in order and returns the first
// clean decoding along with the encoding name.
func decodeText(data []byte) (string, string, error) {
	for _, candidate := range encodingProbe {
		decoded, err := candidate.enc.NewDecoder().Bytes(data)
		if err != nil || !utf8.Valid(decoded) {
			continue
		}
		text := string(decoded)
		// Replacement runes mean the code page rejected a byte.
		if strings.ContainsRune(text, utf8.RuneError) && !strings.ContainsRune(string(data), utf8.RuneError) {
			continue
		}
		return text, candidate.name, nil
	}

	offset := 0
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			offset = i
			break
		}
		i += size
	}
	return "", "", &DecodeError{Offset: offset, Msg: "no candidate encoding could decode the stream"}
}

// decoder is the two-state line machine described by the SIE grammar:
// outside a voucher block, or inside one. A #VER directive stages a voucher
// that the next "{" opens.
type decoder struct {
	file *File
	cfg  levrec.Config

	cur       *Voucher // staged or open voucher, nil while skipping
	malformed bool     // a transaction in the open block failed to parse
	inBlock   bool
}

// Header directives that carry data we do not need. Accepted silently so
// that real-world files do not drown the user in warnings.
var ignoredDirectives = map[string]bool{
	"#FLAGGA": true, "#GEN": true, "#IB": true, "#UB": true, "#RES": true,
	"#PSALDO": true, "#PBUDGET": true, "#DIM": true, "#UNDERDIM": true,
	"#OBJEKT": true, "#ENHET": true, "#SRU": true, "#ADRESS": true,
	"#FTYP": true, "#KPTYP": true, "#TAXAR": true, "#OMFATTN": true,
	"#PROSA": true, "#BKOD": true,
}

func (d *decoder) run(text string) {
	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		lineNo := i + 1

		switch {
		case line == "":
			continue

		case strings.HasPrefix(line, "{"):
			if d.inBlock {
				d.warn(lineNo, "", "nested block delimiter ignored")
				continue
			}
			d.inBlock = true

		case line == "}":
			if !d.inBlock {
				d.warn(lineNo, "", "unexpected block terminator")
				continue
			}
			d.finalize(lineNo)
			d.inBlock = false

		case strings.HasPrefix(line, "#VER"):
			if d.inBlock {
				d.warn(lineNo, "", "ignored #VER inside voucher block")
				continue
			}
			d.startVoucher(line, lineNo)

		case d.inBlock:
			if strings.HasPrefix(line, "#TRANS") {
				d.addTransaction(line, lineNo)
			} else {
				d.warn(lineNo, d.curID(), "ignored line inside voucher block")
			}

		case strings.HasPrefix(line, "#"):
			d.header(line, lineNo)

		default:
			d.warn(lineNo, "", "ignored line outside voucher block")
		}
	}

	if d.inBlock && d.cur != nil {
		d.warn(d.cur.Line, d.cur.ID(), "voucher block not terminated before end of file")
	}
}

// startVoucher parses a #VER directive and stages the voucher. The grammar:
//
//	#VER <series> <number> <yyyymmdd> <description> [<yyyymmdd>]
//
// The description may be a bare token or a quoted string; an opening brace
// on the same line opens the block immediately.
func (d *decoder) startVoucher(line string, lineNo int) {
	d.cur = nil
	d.malformed = false

	fields := splitFields(line)
	// Trailing "{" on the #VER line opens the block directly.
	inline := false
	if n := len(fields); n > 0 && fields[n-1] == "{" {
		fields = fields[:n-1]
		inline = true
	}

	if len(fields) < 4 {
		d.warn(lineNo, "", "unparseable #VER directive")
		return
	}

	number, err := strconv.Atoi(fields[2])
	if err != nil {
		d.warn(lineNo, "", fmt.Sprintf("unparseable voucher number %q", fields[2]))
		return
	}
	date, err := parseDate(fields[3])
	if err != nil {
		d.warn(lineNo, "", fmt.Sprintf("unparseable voucher date %q", fields[3]))
		return
	}

	v := &Voucher{
		Series: fields[1],
		Number: number,
		Date:   date,
		Line:   lineNo,
	}
	if len(fields) > 4 {
		v.Description = fields[4]
	}
	if len(fields) > 5 {
		if reg, err := parseDate(fields[5]); err == nil {
			v.RegDate = reg
		} else {
			d.warn(lineNo, v.ID(), fmt.Sprintf("unparseable registration date %q", fields[5]))
		}
	}

	d.cur = v
	if inline {
		d.inBlock = true
	}
}

// addTransaction parses a #TRANS line inside a block:
//
//	#TRANS <account> {<object-list>} <signed-amount> [<yyyymmdd>] [<description>]
//
// The object list is accepted but not interpreted. Any parse failure marks
// the whole voucher malformed; it is dropped when the block closes.
func (d *decoder) addTransaction(line string, lineNo int) {
	if d.cur == nil || d.malformed {
		return
	}

	fields := splitFields(line)
	idx := 1
	if idx >= len(fields) {
		d.reject(lineNo, "missing account on #TRANS line")
		return
	}
	account := fields[idx]
	if !allDigits(account) {
		d.reject(lineNo, fmt.Sprintf("unparseable account %q", account))
		return
	}
	idx++

	// Object list, commonly "{}".
	if idx < len(fields) && strings.HasPrefix(fields[idx], "{") {
		idx++
	}

	if idx >= len(fields) {
		d.reject(lineNo, "missing amount on #TRANS line")
		return
	}
	amount, err := decimal.NewFromString(fields[idx])
	if err != nil {
		d.reject(lineNo, fmt.Sprintf("unparseable amount %q", fields[idx]))
		return
	}
	idx++

	t := Transaction{Account: account, Amount: amount}

	if idx < len(fields) && len(fields[idx]) == 8 && allDigits(fields[idx]) {
		date, err := parseDate(fields[idx])
		if err != nil {
			d.reject(lineNo, fmt.Sprintf("unparseable transaction date %q", fields[idx]))
			return
		}
		t.Date = date
		idx++
	}
	if idx < len(fields) {
		t.Description = strings.Join(fields[idx:], " ")
	}

	d.cur.Transactions = append(d.cur.Transactions, t)
}

// reject marks the open voucher malformed; the whole voucher is skipped.
func (d *decoder) reject(lineNo int, msg string) {
	d.warn(lineNo, d.curID(), msg+"; voucher skipped")
	d.malformed = true
}

// finalize closes the open block, runs the balance check and emits the
// voucher. Unbalanced vouchers are emitted anyway: the decoder reproduces
// the data faithfully, rejecting them would silently lose records.
func (d *decoder) finalize(lineNo int) {
	v := d.cur
	d.cur = nil
	if v == nil || d.malformed {
		return
	}
	if len(v.Transactions) == 0 {
		d.warn(lineNo, v.ID(), "voucher has no transactions; skipped")
		return
	}

	if imbalance := v.Imbalance(); !d.cfg.Negligible(imbalance) {
		d.warn(v.Line, v.ID(), fmt.Sprintf("voucher does not balance (off by %s)", imbalance.StringFixed(2)))
	}

	d.file.Vouchers = append(d.file.Vouchers, *v)
}

// header records a header directive, or warns when it is unrecognized.
func (d *decoder) header(line string, lineNo int) {
	fields := splitFields(line)
	switch fields[0] {
	case "#PROGRAM":
		d.file.Program = strings.Join(fields[1:], " ")
	case "#FORMAT":
		if len(fields) > 1 {
			d.file.Format = fields[1]
		}
	case "#SIETYP":
		if len(fields) > 1 {
			d.file.SIEType = fields[1]
		}
	case "#FNAMN":
		if len(fields) > 1 {
			d.file.Company = fields[1]
		}
	case "#ORGNR":
		if len(fields) > 1 {
			d.file.OrgNr = fields[1]
		}
	case "#VALUTA":
		if len(fields) > 1 {
			d.file.Currency = fields[1]
		}
	case "#KONTO":
		if len(fields) > 2 {
			d.file.Accounts[fields[1]] = fields[2]
		}
	case "#RAR":
		d.fiscalYear(fields, lineNo)
	default:
		if !ignoredDirectives[fields[0]] {
			d.warn(lineNo, "", fmt.Sprintf("unrecognized directive %s", fields[0]))
		}
	}
}

func (d *decoder) fiscalYear(fields []string, lineNo int) {
	if len(fields) < 4 {
		d.warn(lineNo, "", "unparseable #RAR directive")
		return
	}
	index, err := strconv.Atoi(fields[1])
	if err != nil {
		d.warn(lineNo, "", fmt.Sprintf("unparseable #RAR index %q", fields[1]))
		return
	}
	start, err1 := parseDate(fields[2])
	end, err2 := parseDate(fields[3])
	if err1 != nil || err2 != nil {
		d.warn(lineNo, "", "unparseable #RAR date range")
		return
	}
	d.file.FiscalYears = append(d.file.FiscalYears, FiscalYear{Index: index, Start: start, End: end})
}

func (d *decoder) warn(line int, voucher, msg string) {
	d.file.Warnings = append(d.file.Warnings, Warning{Line: line, Voucher: voucher, Message: msg})
}

func (d *decoder) curID() string {
	if d.cur == nil {
		return ""
	}
	return d.cur.ID()
}

// splitFields splits a directive line into whitespace-separated fields,
// keeping quoted strings (returned unquoted) and brace groups (returned
// with their braces) intact.
func splitFields(line string) []string {
	var fields []string
	i := 0
	for i < len(line) {
		switch c := line[i]; {
		case c == ' ' || c == '\t':
			i++

		case c == '"':
			j := i + 1
			for j < len(line) && line[j] != '"' {
				j++
			}
			fields = append(fields, line[i+1:j])
			if j < len(line) {
				j++
			}
			i = j

		case c == '{':
			j := i + 1
			for j < len(line) && line[j] != '}' {
				j++
			}
			if j < len(line) {
				j++
			}
			fields = append(fields, line[i:j])
			i = j

		default:
			j := i
			for j < len(line) && line[j] != ' ' && line[j] != '\t' {
				j++
			}
			fields = append(fields, line[i:j])
			i = j
		}
	}
	return fields
}

func parseDate(s string) (time.Time, error) {
	if len(s) != 8 || !allDigits(s) {
		return time.Time{}, fmt.Errorf("not an eight-digit date: %q", s)
	}
	return time.Parse("20060102", s)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
