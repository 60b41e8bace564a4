package traj

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"
)

//STF is a simple text trajectory compressed with zstd. An optional header
//of key=value lines comes first, then a "** natoms" line. Each frame is
//one "x y z" line per atom, with the coordinates stored as integers
//(value*10^prec), and a line starting with "*" closes the frame.

const defaultPrec = 2

//Error is returned by the STF reader and writer.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (E *Error) Error() string { return E.message }

//Decorate adds s to the list of functions the error went through.
func (E *Error) Decorate(s string) []string {
	if s != "" {
		E.deco = append(E.deco, s)
	}
	return E.deco
}

func (E *Error) Critical() bool { return E.critical }

//errDecorate adds caller to the trail of err if it is an *Error.
func errDecorate(err error, caller string) error {
	if E, ok := err.(*Error); ok {
		E.Decorate(caller)
	}
	return err
}

func precFromHeader(header map[string]string) int {
	p, ok := header["prec"]
	if !ok {
		return defaultPrec
	}
	prec, err := strconv.Atoi(p)
	if err != nil || prec < 0 {
		log.Printf("Invalid trajectory precision %q. Will use the default", p)
		return defaultPrec
	}
	return prec
}

//Write!
type STFWriter struct {
	z      *zstd.Encoder
	natoms int
	mult   float64
	closed bool
}

//NewSTFWriter starts a trajectory of natoms atoms in w, writing header
//first. The "prec" key of the header, if present, sets the number of
//decimals stored. Keys are written sorted.
func NewSTFWriter(w io.Writer, natoms int, header map[string]string) (*STFWriter, error) {
	z, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, &Error{"can't start compression: " + err.Error(), []string{"NewSTFWriter"}, true}
	}
	S := &STFWriter{z: z, natoms: natoms, mult: math.Pow(10, float64(precFromHeader(header)))}
	keys := make([]string, 0, len(header))
	for k := range header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, header[k])
	}
	fmt.Fprintf(&b, "** %d\n", natoms)
	if _, err := io.WriteString(z, b.String()); err != nil {
		return nil, &Error{err.Error(), []string{"NewSTFWriter"}, true}
	}
	return S, nil
}

func (S *STFWriter) Len() int { return S.natoms }

//WriteFrame appends one frame, a Len()x3 matrix.
func (S *STFWriter) WriteFrame(c mat.Matrix) error {
	if S.closed {
		return &Error{"trajectory is closed", []string{"WriteFrame"}, true}
	}
	if c == nil {
		return &Error{"nil coordinates", []string{"WriteFrame"}, true}
	}
	if r, cols := c.Dims(); r != S.natoms || cols != 3 {
		return &Error{fmt.Sprintf("%dx%d coordinates given, but %dx3 expected", r, cols, S.natoms), []string{"WriteFrame"}, true}
	}
	var b strings.Builder
	for i := 0; i < S.natoms; i++ {
		fmt.Fprintf(&b, "%d %d %d\n",
			int(math.RoundToEven(c.At(i, 0)*S.mult)),
			int(math.RoundToEven(c.At(i, 1)*S.mult)),
			int(math.RoundToEven(c.At(i, 2)*S.mult)))
	}
	b.WriteString("*\n")
	if _, err := io.WriteString(S.z, b.String()); err != nil {
		return &Error{err.Error(), []string{"WriteFrame"}, true}
	}
	return nil
}

//Close flushes the trajectory. It doesn't close the underlying writer.
func (S *STFWriter) Close() error {
	if S.closed {
		return nil
	}
	S.closed = true
	return S.z.Close()
}

//Read!
type STFReader struct {
	z      *zstd.Decoder
	h      *bufio.Reader
	natoms int
	mult   float64
}

//NewSTFReader opens the trajectory in r and returns it with its header,
//which is empty, not nil, if the trajectory has none.
func NewSTFReader(r io.Reader) (*STFReader, map[string]string, error) {
	z, err := zstd.NewReader(r)
	if err != nil {
		return nil, nil, &Error{"can't start decompression: " + err.Error(), []string{"NewSTFReader"}, true}
	}
	S := &STFReader{z: z, h: bufio.NewReader(z), natoms: -1}
	header := make(map[string]string)
	for {
		line, err := S.h.ReadString('\n')
		if err != nil {
			z.Close()
			return nil, nil, &Error{"can't read trajectory header: " + err.Error(), []string{"NewSTFReader"}, true}
		}
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "**") {
			S.natoms, err = strconv.Atoi(strings.TrimSpace(line[2:]))
			if err != nil || S.natoms < 0 {
				z.Close()
				return nil, nil, &Error{fmt.Sprintf("bad atom count line %q", line), []string{"NewSTFReader"}, true}
			}
			break
		}
		if kv := strings.SplitN(line, "=", 2); len(kv) == 2 {
			header[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}
	S.mult = math.Pow(10, float64(precFromHeader(header)))
	return S, header, nil
}

func (S *STFReader) Len() int { return S.natoms }

//Next reads the next frame into c, which must be Len()x3, or skips it if
//c is nil. It returns io.EOF when there are no frames left.
func (S *STFReader) Next(c *mat.Dense) error {
	if c != nil {
		if r, cols := c.Dims(); r != S.natoms || cols != 3 {
			return &Error{fmt.Sprintf("%dx%d matrix given, but %dx3 needed", r, cols, S.natoms), []string{"Next"}, true}
		}
	}
	for i := 0; ; i++ {
		line, err := S.h.ReadString('\n')
		if err == io.EOF && line == "" && i == 0 {
			return io.EOF
		}
		if err != nil && err != io.EOF {
			return &Error{err.Error(), []string{"Next"}, true}
		}
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "*") {
			if i != S.natoms {
				return &Error{fmt.Sprintf("frame has %d atoms, expected %d", i, S.natoms), []string{"Next"}, true}
			}
			return nil
		}
		if err == io.EOF {
			return &Error{"truncated frame", []string{"Next"}, true}
		}
		if i >= S.natoms {
			return &Error{fmt.Sprintf("frame has more than %d atoms", S.natoms), []string{"Next"}, true}
		}
		if c == nil {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return &Error{fmt.Sprintf("bad coordinates line %q", line), []string{"Next"}, true}
		}
		for j, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return &Error{fmt.Sprintf("bad coordinates line %q", line), []string{"Next"}, true}
			}
			c.Set(i, j, float64(v)/S.mult)
		}
	}
}

func (S *STFReader) Close() { S.z.Close() }

//WriteSTF writes the whole trajectory to w.
func (T *Trajectory) WriteSTF(w io.Writer, header map[string]string) error {
	S, err := NewSTFWriter(w, T.Len(), header)
	if err != nil {
		return errDecorate(err, "WriteSTF")
	}
	for _, f := range T.Frames {
		if err := S.WriteFrame(f); err != nil {
			S.Close()
			return errDecorate(err, "WriteSTF")
		}
	}
	return S.Close()
}

//WriteSTFFile writes the whole trajectory to the file name.
func (T *Trajectory) WriteSTFFile(name string, header map[string]string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := T.WriteSTF(f, header); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

//ReadSTF reads all the frames of the trajectory in r. The atoms of the
//returned trajectory are nil.
func ReadSTF(r io.Reader) (*Trajectory, map[string]string, error) {
	S, header, err := NewSTFReader(r)
	if err != nil {
		return nil, nil, errDecorate(err, "ReadSTF")
	}
	defer S.Close()
	T := new(Trajectory)
	for {
		c := mat.NewDense(max(S.Len(), 1), 3, nil)
		if S.Len() == 0 {
			c = nil
		}
		err := S.Next(c)
		if err == io.EOF {
			return T, header, nil
		}
		if err != nil {
			return nil, nil, errDecorate(err, "ReadSTF")
		}
		if c != nil {
			T.Frames = append(T.Frames, c)
		}
	}
}
