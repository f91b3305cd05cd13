package motion

import "strconv"

// BuildCommand maps a job to the detection tool's argument list. The result
// depends only on the job: the same source, output and options always give
// the same arguments in the same order. Every call returns a new slice.
//
//	-i <src> (-d <dir> | -o <file>) -l <n> -t <x> -tb <pad> -tp <pad> [-b <backend>] [-tc]
func BuildCommand(job *JobSpec) []string {
	opts := job.Options
	args := make([]string, 0, 16)

	args = append(args, "-i", job.Source)

	if opts.Combine {
		args = append(args, "-o", job.Output)
	} else {
		args = append(args, "-d", job.Output)
	}

	args = append(args,
		"-l", strconv.Itoa(opts.MinEventLength),
		"-t", strconv.FormatFloat(opts.Threshold, 'f', -1, 64),
		"-tb", string(opts.PrePad),
		"-tp", string(opts.PostPad),
	)

	if opts.Backend != "" && opts.Backend != BackendMOG2 {
		args = append(args, "-b", string(opts.Backend))
	}

	if opts.Timecode {
		args = append(args, "-tc")
	}

	return args
}
